// Package service orchestrates the verification flows: session creation with
// the provider, webhook ingestion, and decision lookup.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"verigate/internal/platform/metrics"
	"verigate/internal/verification/models"
	"verigate/internal/verification/provider"
	"verigate/internal/verification/signature"
	"verigate/internal/verification/store"
	"verigate/internal/verification/tracer"
	dErrors "verigate/pkg/domain-errors"
)

// Service implements the verification use cases on top of injected
// collaborators. It owns no HTTP concerns.
type Service struct {
	provider provider.Client
	store    store.DecisionStore
	verifier *signature.Verifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
	now      func() time.Time
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithMetrics attaches Prometheus metrics. A nil Metrics disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer, typically with a noop in tests.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the ingestion timestamp source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service. All non-option dependencies are required.
func New(providerClient provider.Client, decisions store.DecisionStore, verifier *signature.Verifier, logger *slog.Logger, opts ...Option) (*Service, error) {
	if providerClient == nil {
		return nil, errors.New("service: provider client is required")
	}
	if decisions == nil {
		return nil, errors.New("service: decision store is required")
	}
	if verifier == nil {
		return nil, errors.New("service: signature verifier is required")
	}
	if logger == nil {
		return nil, errors.New("service: logger is required")
	}

	s := &Service{
		provider: providerClient,
		store:    decisions,
		verifier: verifier,
		logger:   logger,
		tracer:   tracer.NewOTel(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateSession validates the document type and asks the provider for a new
// verification session. Provider errors are returned untranslated so the
// transport layer can relay them.
func (s *Service) CreateSession(ctx context.Context, docType string) (*provider.Session, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanSessionCreate,
		tracer.String(tracer.AttrDocType, docType),
	)

	parsed, err := models.ParseDocumentType(docType)
	if err != nil {
		span.End(err)
		return nil, err
	}

	session, err := s.provider.CreateSession(ctx, parsed)
	if err != nil {
		s.recordSessionFailure(err)
		s.logger.ErrorContext(ctx, "session creation failed", "error", err, "doc_type", docType)
		span.End(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementSessionsCreated()
	}
	s.logger.InfoContext(ctx, "verification session created",
		"session_id", session.ID,
		"doc_type", docType,
	)
	span.SetAttributes(tracer.String(tracer.AttrSessionID, session.ID))
	span.End(nil)
	return session, nil
}

func (s *Service) recordSessionFailure(err error) {
	if s.metrics == nil {
		return
	}
	var statusErr *provider.StatusError
	if errors.As(err, &statusErr) {
		s.metrics.IncrementSessionFailures("provider_status")
		return
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		s.metrics.IncrementSessionFailures(string(domainErr.Code))
		return
	}
	s.metrics.IncrementSessionFailures(string(dErrors.CodeInternal))
}

// IngestDecision runs the webhook pipeline: authenticate the raw bytes, parse
// them into a decision record, and persist it. The record overwrites any
// prior record for the same session id.
func (s *Service) IngestDecision(ctx context.Context, raw []byte, signatureToken string) (*models.DecisionRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanWebhookIngest,
		tracer.String(tracer.AttrSigMode, s.verifier.Mode().String()),
	)
	if s.metrics != nil {
		s.metrics.IncrementWebhooksReceived()
	}

	if !s.verifier.Verify(raw, signatureToken) {
		if s.metrics != nil {
			s.metrics.IncrementWebhookAuthFailures()
		}
		err := dErrors.New(dErrors.CodeUnauthorized, "invalid HMAC signature")
		s.logger.WarnContext(ctx, "webhook rejected", "error", err)
		span.End(err)
		return nil, err
	}

	record, err := models.ParseDecisionWebhook(raw, s.now().UTC())
	if err != nil {
		s.logger.WarnContext(ctx, "webhook payload rejected", "error", err)
		span.End(err)
		return nil, err
	}

	if err := s.store.Put(ctx, record); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist decision")
		s.logger.ErrorContext(ctx, "decision persistence failed", "error", err, "session_id", record.SessionID)
		span.End(err)
		return nil, err
	}

	if s.metrics != nil {
		decision := string(record.Decision)
		if decision == "" {
			decision = "none"
		}
		s.metrics.IncrementDecisionsStored(decision)
	}
	s.logger.InfoContext(ctx, "decision stored",
		"session_id", record.SessionID,
		"decision", record.Decision,
	)
	span.SetAttributes(
		tracer.String(tracer.AttrSessionID, record.SessionID),
		tracer.String(tracer.AttrDecision, string(record.Decision)),
	)
	span.End(nil)
	return record, nil
}

// GetDecision returns the stored decision record for a session id.
func (s *Service) GetDecision(ctx context.Context, sessionID string) (*models.DecisionRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDecisionLookup,
		tracer.String(tracer.AttrSessionID, sessionID),
	)

	record, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = dErrors.New(dErrors.CodeNotFound, "decision not found")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load decision")
		}
		span.End(err)
		return nil, err
	}

	span.End(nil)
	return record, nil
}
