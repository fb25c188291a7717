package handler

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	DocType string `json:"docType"`
}
