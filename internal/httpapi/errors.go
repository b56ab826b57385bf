package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/metanotes/internal/auth"
	"github.com/abhisek/metanotes/internal/llm"
	"github.com/abhisek/metanotes/internal/pipeline"
	"github.com/abhisek/metanotes/internal/usage"
)

// errBadInput is the catch-all for a request with neither usable text nor a
// readable PDF.
var errBadInput = errors.New("Provide either 'text' (form field) or 'file' (PDF).")

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Detail: detail})
}

// writeMappedError classifies a domain error into a user-facing status and
// message. Provider errors arrive as the llm package's typed values, so the
// classification is errors.As instead of substring matching.
func writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNotesTooShort):
		writeError(w, http.StatusBadRequest, "Input too short. Add more content.")

	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid authentication token.")

	case isQuota(err):
		writeError(w, http.StatusForbidden, err.Error())

	case isProviderAuth(err):
		writeError(w, http.StatusInternalServerError,
			"Invalid or expired provider API key. Check the configured credentials.")

	case isInsufficientCredits(err):
		writeError(w, http.StatusPaymentRequired,
			"Insufficient API credits. Add credits to your provider account.")

	case isRateLimit(err):
		writeError(w, http.StatusServiceUnavailable,
			"Rate limit exceeded. Please try again in a minute.")

	default:
		writeError(w, http.StatusInternalServerError, "Processing failed: "+err.Error())
	}
}

func isQuota(err error) bool {
	var q *usage.ErrQuotaExceeded
	return errors.As(err, &q)
}

func isProviderAuth(err error) bool {
	var e *llm.ErrAuthFailed
	return errors.As(err, &e)
}

func isInsufficientCredits(err error) bool {
	var e *llm.ErrInsufficientCredits
	return errors.As(err, &e)
}

func isRateLimit(err error) bool {
	var e *llm.ErrRateLimit
	return errors.As(err, &e)
}
