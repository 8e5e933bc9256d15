// Package relay executes requests against a configured destination API:
// it resolves the active preset and credential, checks origin permission,
// builds the shape-specific payload, runs the HTTP exchange in streaming or
// single-shot form, and routes delta/terminal events back to whoever is
// listening for the request id.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tidwall/sjson"

	askshot "github.com/askshot/askshot-llm-go"
	"github.com/askshot/askshot-llm-go/providers/chatapi"
	"github.com/askshot/askshot-llm-go/providers/responsesapi"
)

// noContentPlaceholder stands in for a 2xx response that decoded to nothing.
const noContentPlaceholder = "(no content)"

// Orchestrator drives one request from validation to its single terminal
// outcome. Every failure surfaces as a normalized Result with a
// human-readable message; nothing propagates to callers as a fault.
type Orchestrator struct {
	settings SettingsStore
	creds    CredentialStore
	gate     OriginGate
	router   *askshot.Router
	client   *http.Client
	logger   *slog.Logger
}

// Config wires an Orchestrator. Settings and Credentials are required; the
// rest default to an open gate, a fresh router, a client without timeout
// (this layer enforces none) and a silent logger.
type Config struct {
	Settings    SettingsStore
	Credentials CredentialStore
	Gate        OriginGate
	Router      *askshot.Router
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// New creates an Orchestrator from the given configuration.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		settings: cfg.Settings,
		creds:    cfg.Credentials,
		gate:     cfg.Gate,
		router:   cfg.Router,
		client:   cfg.HTTPClient,
		logger:   cfg.Logger,
	}
	if o.gate == nil {
		o.gate = AllowAll{}
	}
	if o.router == nil {
		o.router = askshot.NewRouter()
	}
	if o.client == nil {
		o.client = &http.Client{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Router returns the router surfaces register their listeners on.
func (o *Orchestrator) Router() *askshot.Router {
	return o.router
}

// CallOptions adjusts a single call. Override merges a configuration under
// test over the stored preset. Suppress discards all event delivery; the
// caller then relies solely on the returned Result.
type CallOptions struct {
	Override *askshot.Settings
	Suppress bool
}

// Call executes one request end to end and returns its terminal result.
// For streaming presets the same outcome is also delivered as the request's
// terminal event, after all of its deltas, unless suppressed.
func (o *Orchestrator) Call(ctx context.Context, req *askshot.AskRequest, opts *CallOptions) *askshot.Result {
	if opts == nil {
		opts = &CallOptions{}
	}
	if err := req.Validate(); err != nil {
		return askshot.Failure(err)
	}

	settings, apiKey, err := o.resolve(ctx, opts)
	if err != nil {
		o.logger.Warn("config resolution failed", "request_id", req.RequestID, "error", err)
		return askshot.Failure(err)
	}

	origin, err := settings.Origin()
	if err != nil {
		return askshot.Failure(&askshot.ConfigError{Field: "base_url", Err: err})
	}
	if err := o.gate.EnsureOrigin(ctx, origin); err != nil {
		o.logger.Warn("origin not granted", "request_id", req.RequestID, "origin", origin)
		return askshot.Failure(err)
	}

	mode := settings.EffectiveMode()
	payload, err := buildPayload(mode, req, settings)
	if err != nil {
		return askshot.Failure(err)
	}

	o.logger.Debug("dispatching request",
		"request_id", req.RequestID, "mode", mode, "model", settings.Model,
		"stream", settings.StreamEnabled, "suppress", opts.Suppress)

	if settings.StreamEnabled {
		return o.streamCall(ctx, req, opts, settings, apiKey, payload, mode)
	}
	return o.unaryCall(ctx, settings, apiKey, payload)
}

// resolve merges stored settings with any override and fetches the preset's
// credential. Missing credential, base URL and model are distinct
// configuration errors raised before any network activity.
func (o *Orchestrator) resolve(ctx context.Context, opts *CallOptions) (*askshot.Settings, string, error) {
	settings, err := o.settings.Active(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load settings: %w", err)
	}
	settings = settings.MergeOverride(opts.Override)

	if settings.BaseURL == "" {
		return nil, "", &askshot.ConfigError{Field: "base_url", Err: askshot.ErrMissingBaseURL}
	}
	if settings.Model == "" {
		return nil, "", &askshot.ConfigError{Field: "model", Err: askshot.ErrMissingModel}
	}

	apiKey, err := o.creds.APIKey(ctx, settings.Preset)
	if err != nil {
		return nil, "", fmt.Errorf("load credential: %w", err)
	}
	if apiKey == "" {
		return nil, "", &askshot.ConfigError{Field: "api_key", Err: askshot.ErrMissingAPIKey}
	}
	return settings, apiKey, nil
}

func buildPayload(mode askshot.Mode, req *askshot.AskRequest, s *askshot.Settings) ([]byte, error) {
	if mode == askshot.ModeResponses {
		return responsesapi.BuildPayload(req.History, req.ImageDataURL, s)
	}
	return chatapi.BuildPayload(req.History, req.ImageDataURL, s)
}

func extractorFor(mode askshot.Mode) askshot.DeltaExtractor {
	if mode == askshot.ModeResponses {
		return responsesapi.Extractor{}
	}
	return chatapi.Extractor{}
}

// unaryCall performs a single-shot exchange and decodes the buffered body.
func (o *Orchestrator) unaryCall(ctx context.Context, s *askshot.Settings, apiKey string, payload []byte) *askshot.Result {
	resp, err := o.post(ctx, s.Endpoint(), apiKey, payload, false)
	if err != nil {
		return askshot.Failure(&askshot.ProviderError{Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return askshot.Failure(&askshot.ProviderError{Err: err})
	}
	if !is2xx(resp.StatusCode) {
		return askshot.Failure(providerFailure(resp.StatusCode, body))
	}
	if !json.Valid(body) {
		return askshot.Failure(&askshot.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
		})
	}

	text, ok := askshot.ExtractText(body)
	if !ok {
		text = noContentPlaceholder
	}
	return &askshot.Result{OK: true, Text: text}
}

// streamCall performs a streaming exchange. All paths out of here, failure
// included, finish with exactly one terminal event for the request id.
func (o *Orchestrator) streamCall(ctx context.Context, req *askshot.AskRequest, opts *CallOptions,
	s *askshot.Settings, apiKey string, payload []byte, mode askshot.Mode) *askshot.Result {

	body, err := sjson.SetBytes(payload, "stream", true)
	if err != nil {
		return o.finishStream(req, opts, askshot.Failure(err))
	}

	resp, err := o.post(ctx, s.Endpoint(), apiKey, body, true)
	if err != nil {
		return o.finishStream(req, opts, askshot.Failure(&askshot.ProviderError{Err: err}))
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		errBody, _ := io.ReadAll(resp.Body)
		return o.finishStream(req, opts, askshot.Failure(providerFailure(resp.StatusCode, errBody)))
	}

	full, err := askshot.StreamText(resp.Body, extractorFor(mode), func(delta string) {
		if !opts.Suppress {
			o.router.Deliver(askshot.DeltaEvent(req.RequestID, delta))
		}
	})
	if err != nil {
		// Partial text is discarded on a mid-stream failure.
		return o.finishStream(req, opts, askshot.Failure(&askshot.ProviderError{Err: err}))
	}

	return o.finishStream(req, opts, &askshot.Result{OK: true, Text: full, Streamed: true})
}

// finishStream delivers the terminal event (unless suppressed) and returns
// the result unchanged.
func (o *Orchestrator) finishStream(req *askshot.AskRequest, opts *CallOptions, res *askshot.Result) *askshot.Result {
	if !opts.Suppress {
		o.router.Deliver(askshot.DoneEvent(req.RequestID, res))
	}
	if !res.OK {
		o.logger.Warn("stream failed", "request_id", req.RequestID, "error", res.Error)
	}
	return res
}

func (o *Orchestrator) post(ctx context.Context, url, apiKey string, body []byte, stream bool) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	return o.client.Do(httpReq)
}

// providerFailure builds the failure for a non-2xx response, preferring the
// structured error message and falling back to the bare status.
func providerFailure(status int, body []byte) *askshot.ProviderError {
	msg, _ := askshot.ExtractError(body)
	return &askshot.ProviderError{StatusCode: status, Message: msg}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
