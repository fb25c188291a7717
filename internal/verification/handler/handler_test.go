package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"verigate/internal/verification/models"
	"verigate/internal/verification/provider"
	"verigate/internal/verification/provider/mocks"
	"verigate/internal/verification/service"
	"verigate/internal/verification/signature"
	"verigate/internal/verification/store/memory"
	"verigate/internal/verification/tracer"
)

const webhookSecret = "handler-test-secret"

type HandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	provider *mocks.MockClient
	router   http.Handler
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.provider = mocks.NewMockClient(s.ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	svc, err := service.New(s.provider, memory.NewInMemory(), signature.New(webhookSecret), logger,
		service.WithTracer(tracer.NewNoop()),
	)
	s.Require().NoError(err)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterWebhooks(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) postWebhook(raw []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/decision", bytes.NewReader(raw))
	if token != "" {
		req.Header.Set(SignatureHeader, token)
	}
	return s.do(req)
}

func (s *HandlerSuite) TestCreateSession() {
	s.provider.EXPECT().
		CreateSession(gomock.Any(), models.DocumentTypePassport).
		Return(&provider.Session{ID: "sess-42", URL: "https://provider.test/flow/sess-42"}, nil)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{"docType":"PASSPORT"}`))))

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"sessionId":"sess-42","url":"https://provider.test/flow/sess-42"}`, rec.Body.String())
}

func (s *HandlerSuite) TestCreateSessionInvalidDocType() {
	// No EXPECT set: any provider call fails the test.
	rec := s.do(httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{"docType":"DRIVER_LICENSE"}`))))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreateSessionMalformedBody() {
	rec := s.do(httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{docType`))))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreateSessionProviderPassthrough() {
	s.provider.EXPECT().
		CreateSession(gomock.Any(), models.DocumentTypeIDCard).
		Return(nil, &provider.StatusError{
			StatusCode: http.StatusTooManyRequests,
			Body:       []byte(`{"status":"fail","error":"quota exceeded"}`),
		})

	rec := s.do(httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{"docType":"ID_CARD"}`))))

	s.Equal(http.StatusTooManyRequests, rec.Code, "provider status must be relayed")
	s.JSONEq(`{"status":"fail","error":"quota exceeded"}`, rec.Body.String(), "provider body must be relayed verbatim")
}

func (s *HandlerSuite) TestWebhookRoundTrip() {
	raw := []byte(`{"verification":{"id":"abc123","decision":"approved","document":{"type":"ID_CARD","country":"BR","number":"123456"}}}`)

	rec := s.postWebhook(raw, sign(raw))
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(rec.Body.String(), "acknowledgment carries no body")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/decision/abc123", nil))
	s.Equal(http.StatusOK, rec.Code)

	var resp DecisionResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Found)
	s.Equal("abc123", resp.SessionID)
	s.Equal("approved", resp.Decision)
	s.Equal("ID_CARD", resp.DocType)
	s.Equal("BR", resp.DocCountry)
	s.Require().NotNil(resp.DocNumber)
	s.Equal("123456", *resp.DocNumber)
	s.Require().NotNil(resp.CreatedAt)
	s.WithinDuration(time.Now(), *resp.CreatedAt, time.Minute)
	s.JSONEq(string(raw), string(resp.Raw))
}

func (s *HandlerSuite) TestWebhookBadSignature() {
	raw := []byte(`{"verification":{"id":"abc123","decision":"approved"}}`)

	s.Run("missing header", func() {
		s.Equal(http.StatusUnauthorized, s.postWebhook(raw, "").Code)
	})

	s.Run("wrong signature", func() {
		s.Equal(http.StatusUnauthorized, s.postWebhook(raw, sign([]byte("other body"))).Code)
	})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/decision/abc123", nil))
	s.Equal(http.StatusNotFound, rec.Code, "rejected webhooks must not persist")
}

func (s *HandlerSuite) TestWebhookMissingSessionID() {
	raw := []byte(`{"verification":{"decision":"approved"}}`)

	rec := s.postWebhook(raw, sign(raw))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestWebhookMalformedPayload() {
	raw := []byte(`{not json`)

	rec := s.postWebhook(raw, sign(raw))
	s.Equal(http.StatusBadRequest, rec.Code, "a correctly signed but malformed payload is a client error")
}

func (s *HandlerSuite) TestGetDecisionUnknownSession() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/decision/never-seen", nil))

	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"found":false}`, rec.Body.String())
}
