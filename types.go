package askshot

import "strings"

// Role constants for conversation turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Block kind constants.
const (
	BlockKindText  = "text"
	BlockKindImage = "image"
)

// Block represents a single content block inside a turn.
// It is a tagged union: text blocks carry Text, image blocks carry
// DataURL (a data: URI produced by the capture surface).
type Block struct {
	// Kind is the block type: "text" or "image"
	Kind string `json:"type"`

	// Text contains the text for text blocks
	Text string `json:"text,omitempty"`

	// DataURL contains the data-URI for image blocks
	DataURL string `json:"dataUrl,omitempty"`
}

// IsText returns true if this is a text block with content attached.
func (b Block) IsText() bool {
	return b.Kind == BlockKindText
}

// IsImage returns true if this is an image block with a data URI attached.
func (b Block) IsImage() bool {
	return b.Kind == BlockKindImage && b.DataURL != ""
}

// TextBlock builds a text content block.
func TextBlock(text string) Block {
	return Block{Kind: BlockKindText, Text: text}
}

// ImageBlock builds an image content block from a data URI.
func ImageBlock(dataURL string) Block {
	return Block{Kind: BlockKindImage, DataURL: dataURL}
}

// Turn represents a single turn in the conversation. Ordering of turns is
// chronological and ordering of blocks within a turn is meaningful.
// Turns are appended, never mutated in place.
type Turn struct {
	// Role is "system", "user" or "assistant"
	Role string `json:"role"`

	// Content is the ordered list of content blocks for this turn
	Content []Block `json:"content"`
}

// JoinedText returns the turn's text blocks joined by newlines, skipping
// empty blocks. Image blocks are ignored.
func (t Turn) JoinedText() string {
	var parts []string
	for _, b := range t.Content {
		if b.Kind == BlockKindText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// UserTurn builds a user turn from the given blocks.
func UserTurn(blocks ...Block) Turn {
	return Turn{Role: RoleUser, Content: blocks}
}

// AssistantTextTurn builds an assistant turn holding a single text block.
func AssistantTextTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Content: []Block{TextBlock(text)}}
}

// SystemTurn builds a system turn holding a single text block.
func SystemTurn(text string) Turn {
	return Turn{Role: RoleSystem, Content: []Block{TextBlock(text)}}
}

// HasSystemTurn reports whether the history already contains a system turn.
func HasSystemTurn(history []Turn) bool {
	for _, t := range history {
		if t.Role == RoleSystem {
			return true
		}
	}
	return false
}

// ConciseDirective is prepended as a system entry to every outgoing payload.
// An existing copy is detected by substring match against prior system
// content, so repeated builds over a growing conversation add it only once.
const ConciseDirective = "Answer as concisely as possible."
