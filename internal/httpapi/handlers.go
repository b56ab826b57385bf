package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/abhisek/metanotes/internal/extract"
	"github.com/abhisek/metanotes/internal/quiz"
)

// maxUploadBytes caps PDF uploads at 32 MiB.
const maxUploadBytes = 32 << 20

type processResponse struct {
	UnifiedExplanation string          `json:"unifiedExplanation"`
	ReadingTimeMinutes float64         `json:"readingTimeMinutes"`
	Questions          []quiz.Question `json:"questions"`
}

type evaluateRequest struct {
	QuestionsWithAnswers []quiz.AnsweredQuestion `json:"questionsWithAnswers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":    "MetaNotes",
		"status": "ok",
	})
}

// handleProcess runs the full pipeline: auth, quota, input resolution
// (pasted text or PDF upload), then stages 1-6.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing Authorization header")
		return
	}

	ident, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	// Quota is checked before any provider cost is incurred.
	if _, err := s.usage.CheckAndIncrement(r.Context(), ident.Email); err != nil {
		writeMappedError(w, err)
		return
	}

	notes, err := resolveNotes(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.pipeline.ProcessNotes(r.Context(), notes)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, processResponse{
		UnifiedExplanation: result.UnifiedExplanation,
		ReadingTimeMinutes: result.ReadingTimeMinutes,
		Questions:          result.Questions,
	})
}

// handleEvaluateQuiz scores an answered question set.
func (s *Server) handleEvaluateQuiz(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	result, _, err := s.pipeline.EvaluateQuiz(r.Context(), req.QuestionsWithAnswers)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// resolveNotes extracts the study notes from the request: the "text" form
// field when present, otherwise a PDF upload under "file".
func resolveNotes(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", errBadInput
	}

	if text := strings.TrimSpace(r.FormValue("text")); text != "" {
		return text, nil
	}

	file, header, err := r.FormFile("file")
	if err != nil || !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return "", errBadInput
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", errBadInput
	}

	notes, err := extract.Text(raw)
	if err != nil {
		return "", errBadInput
	}
	return notes, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
