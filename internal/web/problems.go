package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ProblemDetail represents an RFC 9457 Problem Details response.
// See: https://datatracker.ietf.org/doc/html/rfc9457
type ProblemDetail struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail,omitempty"`
	Instance  string            `json:"instance,omitempty"`
	Timestamp string            `json:"timestamp"`
	Errors    []ValidationError `json:"errors,omitempty"`
	TraceID   string            `json:"trace_id,omitempty"`
}

// ValidationError represents a single validation error for a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Problem type URIs, relative to the server root.
const (
	ProblemTypeValidationError     = "/problems/validation-error"
	ProblemTypeBadRequest          = "/problems/bad-request"
	ProblemTypePayloadTooLarge     = "/problems/payload-too-large"
	ProblemTypeInternalServerError = "/problems/internal-server-error"
)

// NewProblemDetail creates a problem detail stamped with the current time.
func NewProblemDetail(problemType, title string, status int, detail string) *ProblemDetail {
	return &ProblemDetail{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewValidationProblem creates a 422 response for validation errors.
func NewValidationProblem(detail string, errors []ValidationError) *ProblemDetail {
	p := NewProblemDetail(ProblemTypeValidationError, "Validation Error", http.StatusUnprocessableEntity, detail)
	p.Errors = errors
	return p
}

// NewBadRequestProblem creates a 400 response for malformed requests.
func NewBadRequestProblem(detail string) *ProblemDetail {
	return NewProblemDetail(ProblemTypeBadRequest, "Bad Request", http.StatusBadRequest, detail)
}

// NewPayloadTooLargeProblem creates a 413 response for oversized uploads.
func NewPayloadTooLargeProblem(detail string) *ProblemDetail {
	return NewProblemDetail(ProblemTypePayloadTooLarge, "Payload Too Large", http.StatusRequestEntityTooLarge, detail)
}

// NewInternalServerProblem creates a 500 response for server-side errors.
func NewInternalServerProblem(detail string) *ProblemDetail {
	return NewProblemDetail(ProblemTypeInternalServerError, "Internal Server Error", http.StatusInternalServerError, detail)
}

// SendProblem writes p as application/problem+json, filling in the request
// path and trace ID.
func SendProblem(c *gin.Context, p *ProblemDetail) {
	if p.Instance == "" {
		p.Instance = c.Request.URL.Path
	}
	if p.TraceID == "" {
		p.TraceID = c.GetString(traceIDKey)
	}
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(p.Status, p)
}
