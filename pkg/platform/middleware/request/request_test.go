package request

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RequestMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func (s *RequestMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRequestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(RequestMiddlewareSuite))
}

func (s *RequestMiddlewareSuite) TestRequestIDGenerated() {
	var captured string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	s.NotEmpty(captured)
	s.Equal(captured, rec.Header().Get("X-Request-ID"))
}

func (s *RequestMiddlewareSuite) TestRequestIDClientProvided() {
	s.Run("valid id is kept", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-id-123")
		rec := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		s.Equal("client-id-123", rec.Header().Get("X-Request-ID"))
	})

	s.Run("invalid id is replaced", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "bad id\nwith newline")
		rec := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		s.NotEqual("bad id\nwith newline", rec.Header().Get("X-Request-ID"))
		s.NotEmpty(rec.Header().Get("X-Request-ID"))
	})

	s.Run("oversized id is replaced", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", MaxRequestIDLength+1))
		rec := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		s.LessOrEqual(len(rec.Header().Get("X-Request-ID")), MaxRequestIDLength)
	})
}

func (s *RequestMiddlewareSuite) TestRecovery() {
	h := Recovery(s.logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	s.NotPanics(func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *RequestMiddlewareSuite) TestContentTypeJSON() {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	s.Run("rejects non-json POST", func() {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		ContentTypeJSON(ok).ServeHTTP(rec, req)

		s.Equal(http.StatusUnsupportedMediaType, rec.Code)
	})

	s.Run("accepts json with charset", func() {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()
		ContentTypeJSON(ok).ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("accepts missing content type", func() {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		ContentTypeJSON(ok).ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("ignores GET", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		ContentTypeJSON(ok).ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *RequestMiddlewareSuite) TestBodyLimit() {
	h := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
}
