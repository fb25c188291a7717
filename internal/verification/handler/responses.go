package handler

import (
	"encoding/json"
	"time"

	"verigate/internal/verification/models"
)

// CreateSessionResponse is the body of a successful POST /sessions.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// DecisionResponse is the body of GET /decision/{sessionId}. Found is false
// with all other fields omitted when no record exists.
type DecisionResponse struct {
	Found      bool            `json:"found"`
	SessionID  string          `json:"sessionId,omitempty"`
	Decision   string          `json:"decision,omitempty"`
	DocType    string          `json:"docType,omitempty"`
	DocCountry string          `json:"docCountry,omitempty"`
	DocNumber  *string         `json:"docNumber,omitempty"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

func toDecisionResponse(record *models.DecisionRecord) DecisionResponse {
	createdAt := record.CreatedAt
	return DecisionResponse{
		Found:      true,
		SessionID:  record.SessionID,
		Decision:   string(record.Decision),
		DocType:    string(record.DocType),
		DocCountry: record.DocCountry,
		DocNumber:  record.DocNumber,
		CreatedAt:  &createdAt,
		Raw:        record.Raw,
	}
}
