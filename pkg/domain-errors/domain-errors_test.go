package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: These are core error primitives used at every trust boundary.
// Unit tests ensure invariants like "wrapped domain errors preserve original code"
// and "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "decision not found"}
		s.Equal("decision not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeUpstreamContract}
		s.Equal("upstream_contract", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	inner := errors.New("connection refused")
	err := Wrap(inner, CodeUpstreamTimeout, "provider call failed")

	s.ErrorIs(err, inner)
}

func (s *DomainErrorsSuite) TestWrapPreservesDomainCode() {
	original := New(CodeUnauthorized, "bad signature")
	wrapped := Wrap(original, CodeInternal, "webhook rejected")

	s.True(HasCode(wrapped, CodeUnauthorized), "wrapping must not change the original code")
	s.False(HasCode(wrapped, CodeInternal))
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	err := New(CodeValidation, "invalid docType")

	s.ErrorIs(err, &Error{Code: CodeValidation})
	s.NotErrorIs(err, &Error{Code: CodeBadRequest})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("matches direct error", func() {
		s.True(HasCode(New(CodeConfig, "missing api key"), CodeConfig))
	})

	s.Run("does not match plain errors", func() {
		s.False(HasCode(errors.New("boom"), CodeInternal))
	})

	s.Run("does not match nil", func() {
		s.False(HasCode(nil, CodeInternal))
	})
}
