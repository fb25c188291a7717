package models

import (
	"encoding/json"
	"time"

	dErrors "verigate/pkg/domain-errors"
)

// Decision is the terminal outcome of a verification session as reported by
// the provider.
type Decision string

const (
	DecisionApproved     Decision = "approved"
	DecisionDeclined     Decision = "declined"
	DecisionResubmission Decision = "resubmission_requested"
	DecisionExpired      Decision = "expired"
	DecisionAbandoned    Decision = "abandoned"
	DecisionUnknown      Decision = "unknown"
)

// ParseDecision normalizes a provider-supplied decision string. Empty input
// stays empty (the provider has not decided yet); anything outside the known
// set collapses to DecisionUnknown so the stored enum stays closed.
func ParseDecision(s string) Decision {
	switch Decision(s) {
	case DecisionApproved, DecisionDeclined, DecisionResubmission, DecisionExpired, DecisionAbandoned, DecisionUnknown:
		return Decision(s)
	case "":
		return ""
	default:
		return DecisionUnknown
	}
}

// DocumentType is the kind of identity document used for a session.
type DocumentType string

const (
	DocumentTypePassport DocumentType = "PASSPORT"
	DocumentTypeIDCard   DocumentType = "ID_CARD"
)

// ParseDocumentType validates a caller-supplied document type against the
// closed enumeration accepted for session creation.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocumentTypePassport, DocumentTypeIDCard:
		return DocumentType(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid document type")
	}
}

// DecisionRecord is the persisted outcome of a verification session.
//
// SessionID is the sole identity key: the store holds at most one record per
// session and a later webhook overwrites the whole record (last write wins,
// no field-level merge). DocNumber distinguishes "provider said not available"
// (nil) from "no record yet" (record absent from the store).
type DecisionRecord struct {
	SessionID  string       `json:"sessionId"`
	Decision   Decision     `json:"decision,omitempty"`
	DocType    DocumentType `json:"docType,omitempty"`
	DocCountry string       `json:"docCountry,omitempty"`
	DocNumber  *string      `json:"docNumber"`
	CreatedAt  time.Time    `json:"createdAt"`

	// Raw retains the verbatim webhook payload for audit and debugging.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// webhookPayload mirrors the provider's decision webhook shape. Every field is
// optional at the wire level; ParseDecisionWebhook decides what is required.
type webhookPayload struct {
	Verification *webhookVerification `json:"verification"`
}

type webhookVerification struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	Decision  string           `json:"decision"`
	Document  *webhookDocument `json:"document"`
}

type webhookDocument struct {
	Type    string  `json:"type"`
	Country string  `json:"country"`
	Number  *string `json:"number"`
}

// ParseDecisionWebhook decodes a raw webhook body into a DecisionRecord.
//
// The provider has been observed to carry the session id under either
// verification.id or verification.sessionId; both are accepted with id
// preferred. This dual-key tolerance is a provider-contract ambiguity, not a
// documented guarantee.
//
// The returned record carries the verbatim payload in Raw and the supplied
// ingestion time in CreatedAt. Document fields are stored as reported; only
// the decision value is normalized into the closed enum.
func ParseDecisionWebhook(raw []byte, receivedAt time.Time) (*DecisionRecord, error) {
	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed webhook payload")
	}

	v := payload.Verification
	if v == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session id not found in payload")
	}

	sessionID := v.ID
	if sessionID == "" {
		sessionID = v.SessionID
	}
	if sessionID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session id not found in payload")
	}

	record := &DecisionRecord{
		SessionID: sessionID,
		Decision:  ParseDecision(v.Decision),
		CreatedAt: receivedAt,
		Raw:       json.RawMessage(raw),
	}

	if doc := v.Document; doc != nil {
		record.DocType = DocumentType(doc.Type)
		record.DocCountry = doc.Country
		record.DocNumber = doc.Number
	}

	return record, nil
}
