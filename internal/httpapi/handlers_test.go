package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/metanotes/internal/auth"
	"github.com/abhisek/metanotes/internal/config"
	"github.com/abhisek/metanotes/internal/llm"
	"github.com/abhisek/metanotes/internal/pipeline"
	"github.com/abhisek/metanotes/internal/quiz"
	"github.com/abhisek/metanotes/internal/usage"
)

const testNotes = "Photosynthesis converts light energy into chemical energy stored in glucose molecules inside chloroplasts."

// testEnv wires a full server on a mock provider, a temp usage store, and a
// fake identity service.
func testEnv(t *testing.T, mock *llm.MockProvider, limit int) http.Handler {
	t.Helper()

	identSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh-token"] != "good-token" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "u1", "email": "student@example.com"},
		})
	}))
	t.Cleanup(identSrv.Close)

	store, err := usage.Open(filepath.Join(t.TempDir(), "usage.db"), limit)
	if err != nil {
		t.Fatalf("open usage store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := NewServer(
		pipeline.NewService(mock),
		auth.NewVerifier(identSrv.URL, "app-123"),
		store,
	)
	return srv.Router(config.Config{AllowedOrigins: []string{"*"}})
}

func fullRunMock() *llm.MockProvider {
	mock := llm.NewMockProvider()
	for range 4 {
		mock.AddResponse(llm.MockResponse{Content: json.RawMessage("- stage output")})
	}
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(
		"TITLE\nTopic\n\nCORE IDEA\nIdea.\n\nKEY POINTS\n- one\n\nONE EXAMPLE\nExample.\n\nIMPORTANT NOTE\nNote.")})
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{
		"questions": [
			{"id": "q1", "type": "mcq", "question": "A?", "options": ["A", "B", "C", "D"], "correctIndex": 0, "expectedKeywords": []},
			{"id": "q2", "type": "mcq", "question": "B?", "options": ["A", "B", "C", "D"], "correctIndex": 1, "expectedKeywords": []},
			{"id": "q3", "type": "short", "question": "C?", "options": [], "correctIndex": 0, "expectedKeywords": []},
			{"id": "q4", "type": "short", "question": "D?", "options": [], "correctIndex": 0, "expectedKeywords": []},
			{"id": "q5", "type": "application", "question": "E?", "options": [], "correctIndex": 0, "expectedKeywords": []}
		]
	}`)})
	return mock
}

func processRequest(t *testing.T, text, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if text != "" {
		if err := w.WriteField("text", text); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestHealth(t *testing.T) {
	router := testEnv(t, llm.NewMockProvider(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestProcess_Success(t *testing.T) {
	router := testEnv(t, fullRunMock(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, testNotes, "good-token"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body processResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(body.Questions))
	}
	if !strings.Contains(body.UnifiedExplanation, "CORE IDEA") {
		t.Errorf("unified explanation missing sections: %q", body.UnifiedExplanation)
	}
	if body.ReadingTimeMinutes < 0 {
		t.Errorf("negative reading time %v", body.ReadingTimeMinutes)
	}
}

func TestProcess_MissingAuthHeader(t *testing.T) {
	router := testEnv(t, llm.NewMockProvider(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, testNotes, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProcess_RejectedToken(t *testing.T) {
	router := testEnv(t, llm.NewMockProvider(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, testNotes, "wrong-token"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProcess_QuotaExceeded(t *testing.T) {
	mock := fullRunMock()
	router := testEnv(t, mock, 1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, testNotes, "good-token"))
	if rec.Code != http.StatusOK {
		t.Fatalf("first call: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, testNotes, "good-token"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("second call: expected 403, got %d", rec.Code)
	}
	// Quota is enforced before any provider call.
	if mock.CallCount() != 6 {
		t.Errorf("expected no provider calls past the first run, got %d", mock.CallCount())
	}
}

func TestProcess_InputTooShort(t *testing.T) {
	router := testEnv(t, llm.NewMockProvider(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, "too short", "good-token"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProcess_NoInput(t *testing.T) {
	router := testEnv(t, llm.NewMockProvider(), 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, "", "good-token"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProcess_RateLimitMapsTo503(t *testing.T) {
	// All four concurrent stages hit the limit so the surfaced error is
	// deterministic.
	mock := llm.NewMockProvider()
	for range 4 {
		mock.AddResponse(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	}
	router := testEnv(t, mock, 5)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, processRequest(t, testNotes, "good-token"))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestEvaluateQuiz_FallbackScoring(t *testing.T) {
	// Non-JSON model output: the local heuristic still yields a result.
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("not json")})
	router := testEnv(t, mock, 5)

	correct := 0
	payload := evaluateRequest{
		QuestionsWithAnswers: []quiz.AnsweredQuestion{
			{
				Question: quiz.Question{
					ID: "q1", Type: quiz.TypeMCQ, Question: "Capital?",
					Options: []string{"Paris", "Lyon"}, CorrectIndex: &correct,
				},
				UserAnswer: "Paris",
			},
			{
				Question:   quiz.Question{ID: "q2", Type: quiz.TypeShort, Question: "Summarize."},
				UserAnswer: "",
			},
		},
	}
	body, _ := json.Marshal(payload)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate-quiz", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result quiz.EvaluationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Score != 1 || result.MaxScore != 2 {
		t.Errorf("expected 1/2, got %d/%d", result.Score, result.MaxScore)
	}
	if result.TopicUnderstandingPercentage != 50 {
		t.Errorf("expected 50%%, got %d", result.TopicUnderstandingPercentage)
	}
}

func TestEvaluateQuiz_MalformedBody(t *testing.T) {
	router := testEnv(t, llm.NewMockProvider(), 5)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate-quiz", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
