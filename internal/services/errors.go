package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/spotdir/internal/shared"
)

const maxErrorSnippet = 256

// CatalogAPIError is a summary of a non-2xx catalog response that is not retried.
type CatalogAPIError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *CatalogAPIError) Error() string {
	if e == nil {
		return "catalog api error"
	}
	msg := fmt.Sprintf("catalog api error: op=%s status=%s", strings.TrimSpace(e.Op), strings.TrimSpace(e.Status))
	if e.Body != "" {
		msg += " body=" + e.Body
	}
	return msg
}

// Unwrap lets a 401 match [shared.ErrNotAuthenticated].
func (e *CatalogAPIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return shared.ErrNotAuthenticated
	}
	return shared.ErrAPIRequest
}

func newCatalogAPIError(op string, resp *http.Response, body []byte) *CatalogAPIError {
	e := &CatalogAPIError{Op: op, Body: truncate(body)}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		e.Status = resp.Status
	}
	return e
}

func truncate(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	b := body
	if len(b) > maxErrorSnippet {
		b = b[:maxErrorSnippet]
	}
	s := strings.ReplaceAll(string(b), "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s != "" && len(body) > maxErrorSnippet {
		return s + "..."
	}
	return s
}
