// Package handler is the thin HTTP layer for the verification endpoints. It
// delegates to the service without embedding business logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verigate/internal/verification/models"
	"verigate/internal/verification/provider"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/httputil"
	request "verigate/pkg/platform/middleware/request"
)

// SignatureHeader carries the webhook HMAC token. Header lookup is
// case-insensitive per RFC 9110; net/http canonicalizes for us.
const SignatureHeader = "X-Hmac-Signature"

// Service defines the verification operations the handlers need.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	CreateSession(ctx context.Context, docType string) (*provider.Session, error)
	IngestDecision(ctx context.Context, raw []byte, signatureToken string) (*models.DecisionRecord, error)
	GetDecision(ctx context.Context, sessionID string) (*models.DecisionRecord, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the verification routes. The webhook route is registered
// separately from the JSON routes by the router so raw, unmodified body bytes
// reach signature verification.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.HandleCreateSession)
	r.Get("/decision/{sessionID}", h.HandleGetDecision)
}

// RegisterWebhooks mounts the provider callback routes.
func (h *Handler) RegisterWebhooks(r chi.Router) {
	r.Post("/webhooks/decision", h.HandleDecisionWebhook)
}

// HandleCreateSession proxies session creation to the provider.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	session, err := h.service.CreateSession(ctx, req.DocType)
	if err != nil {
		// Provider non-success responses are relayed verbatim so callers can
		// diagnose provider-side issues.
		var statusErr *provider.StatusError
		if errors.As(err, &statusErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusErr.StatusCode)
			_, _ = w.Write(statusErr.Body)
			return
		}
		h.logger.ErrorContext(ctx, "create session failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CreateSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}

// HandleDecisionWebhook ingests an asynchronous decision callback. The body is
// captured as raw bytes before any decoding; signature verification depends on
// byte-exact input.
func (h *Handler) HandleDecisionWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "webhook body read failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read request body"))
		return
	}

	if _, err := h.service.IngestDecision(ctx, raw, r.Header.Get(SignatureHeader)); err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Acknowledge only after persistence succeeded; empty body by contract.
	w.WriteHeader(http.StatusOK)
}

// HandleGetDecision returns the stored decision for a session id, for
// client-side polling.
func (h *Handler) HandleGetDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	record, err := h.service.GetDecision(ctx, sessionID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, DecisionResponse{Found: false})
			return
		}
		h.logger.ErrorContext(ctx, "decision lookup failed", "error", err, "session_id", sessionID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(record))
}
