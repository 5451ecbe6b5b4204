package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/extraction"
	"github.com/jonathan/ats-engine/internal/gaps"
	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

const (
	testResume = `Jane Doe
jane@example.com | (555) 123-4567

EXPERIENCE
Senior Software Engineer, Acme Corp
- Built Go microservices on Kubernetes serving 2M requests per day
- Reduced PostgreSQL query latency by 40% through indexing

SKILLS
Go, Kubernetes, PostgreSQL, Docker, AWS

EDUCATION
B.S. Computer Science`

	testJD = `Senior Backend Engineer
Requirements:
- 5+ years of experience with Go
- Production experience with Kubernetes and PostgreSQL
- Experience with AWS is a plus`
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	cfg.Server.RateLimit = 1000
	cfg.Server.Burst = 1000
	if mutate != nil {
		mutate(cfg)
	}

	dict := dictionary.MustDefault()
	scorer, err := scoring.NewScorer(dict)
	require.NoError(t, err)
	tok := textproc.NewTokenizer(dict)

	store, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s, err := New(cfg, Deps{
		Scorer:    scorer,
		Extractor: extraction.NewExtractor(dict),
		Gaps:      gaps.NewAnalyzer(tok),
		Semantic:  similarity.NewSemanticTopN(dict, tok, cfg.Scoring.TopN),
		Analyzer:  abtest.NewAnalyzer(),
		Store:     store,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresDeps(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	s, err := New(cfg, Deps{})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "scorer is required")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestScore(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/v1/score", ScoreRequest{Resume: testResume, JobDescription: testJD}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decodeBody[types.ScoreResult](t, w)
	assert.GreaterOrEqual(t, res.Score, 20)
	assert.LessOrEqual(t, res.Score, 100)
	assert.NotEmpty(t, res.Grade)
	assert.Contains(t, res.MatchedKeywords, "kubernetes")
	assert.Equal(t, "1000", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestScore_EmptyResumeIsDegenerate(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/v1/score", ScoreRequest{Resume: "", JobDescription: testJD}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decodeBody[types.ScoreResult](t, w).Score)
}

func TestScore_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", "", "request body is empty"},
		{"invalid json", "{", "validation error: body"},
		{"unknown field", `{"resume":"x","color":"blue"}`, "unknown field"},
		{"unknown weights key", `{"resume":"x","weights":{"bogus":1}}`, "malformed document"},
		{"negative keyword weight", `{"resume":"x","weights":{"keywordWeights":{"go":-1}}}`, "invalid scoring configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/score", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody[errorBody](t, w).Error, tt.wantMsg)
		})
	}
}

func TestScore_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"resume":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	w := do(t, s, http.MethodPost, "/v1/score", body, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestScoreBatch(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/v1/score/batch", BatchScoreRequest{
		Resumes:        []string{testResume, "too short"},
		JobDescription: testJD,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[BatchScoreResponse](t, w)
	require.Len(t, res.Results, 2)
	assert.Greater(t, res.Results[0].Score, res.Results[1].Score)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, s, http.MethodPost, "/v1/score/batch", `{"resumes":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[errorBody](t, w).Error, "resumes")
}

func TestGapsExtractSimilarity(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/v1/gaps", PairRequest{Resume: testResume, JobDescription: testJD}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gap := decodeBody[types.GapAnalysis](t, w)
	assert.GreaterOrEqual(t, gap.Score, 0)
	assert.LessOrEqual(t, gap.Score, 100)
	assert.NotEmpty(t, gap.Matched)

	w = do(t, s, http.MethodPost, "/v1/extract", ExtractRequest{JobDescription: testJD}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Kubernetes")

	w = do(t, s, http.MethodPost, "/v1/similarity", PairRequest{Resume: testResume, JobDescription: testJD}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rel := decodeBody[similarity.Relevance](t, w)
	assert.Greater(t, rel.Score, 0)
	assert.LessOrEqual(t, rel.Score, 100)
}

func TestPairRoutes_RequireResume(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/v1/gaps", "/v1/similarity"} {
		w := do(t, s, http.MethodPost, path, `{"jobDescription":"text"}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, decodeBody[errorBody](t, w).Error, "resume", path)
	}
	w := do(t, s, http.MethodPost, "/v1/extract", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPairRoutes_EmptyJobDescription(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/v1/gaps", PairRequest{Resume: testResume}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gap := decodeBody[types.GapAnalysis](t, w)
	assert.Equal(t, 100, gap.Score)
	assert.Empty(t, gap.MissingCritical)
	assert.Empty(t, gap.MissingImportant)

	w = do(t, s, http.MethodPost, "/v1/similarity", `{"resume":"Go engineer"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rel := decodeBody[similarity.Relevance](t, w)
	assert.Equal(t, 0, rel.Overlap.TotalJDSkills)
}

func outcomeRun(id string, n, interviews int) []types.ApplicationOutcome {
	applied := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := make([]types.ApplicationOutcome, 0, n)
	for i := range n {
		o := types.ApplicationOutcome{ResumeVersionID: id, Outcome: types.OutcomeRejected, AppliedAt: applied}
		if i < interviews {
			o.Outcome = types.OutcomeInterview
		}
		out = append(out, o)
	}
	return out
}

func TestABTestAnalyze(t *testing.T) {
	s := newTestServer(t, nil)
	req := AnalyzeRequest{
		Versions: []types.ResumeVersion{{ID: "a", Name: "Metrics"}, {ID: "b", Name: "Original"}},
		Outcomes: append(outcomeRun("a", 20, 8), outcomeRun("b", 20, 2)...),
	}
	w := do(t, s, http.MethodPost, "/v1/abtest/analyze", req, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decodeBody[types.ABTestResults](t, w)
	assert.Equal(t, types.StatusWinnerFound, res.Status)
	require.NotNil(t, res.Winner)
	assert.Equal(t, "a", res.Winner.VersionID)

	w = do(t, s, http.MethodPost, "/v1/abtest/analyze", `{"versions":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := AnalyzeRequest{
		Versions: []types.ResumeVersion{{ID: "a"}},
		Outcomes: []types.ApplicationOutcome{{ResumeVersionID: "a", Outcome: "ghosted"}},
	}
	w = do(t, s, http.MethodPost, "/v1/abtest/analyze", bad, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[errorBody](t, w).Error, "outcomes[0].outcome")
}

func TestABTestCompare(t *testing.T) {
	s := newTestServer(t, nil)
	req := CompareRequest{
		VersionA: &CompareSide{Version: types.ResumeVersion{ID: "a", Name: "A"}, Outcomes: outcomeRun("a", 20, 8)},
		VersionB: &CompareSide{Version: types.ResumeVersion{ID: "b", Name: "B"}, Outcomes: outcomeRun("b", 20, 2)},
	}
	w := do(t, s, http.MethodPost, "/v1/abtest/compare", req, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cmp := decodeBody[abtest.Comparison](t, w)
	require.NotNil(t, cmp.WinnerName)
	assert.Equal(t, "A", *cmp.WinnerName)
	assert.InDelta(t, 300.0, cmp.Improvement, 1e-9)

	w = do(t, s, http.MethodPost, "/v1/abtest/compare", CompareRequest{VersionA: req.VersionA}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `validation error: versionB - failed "required" constraint`, decodeBody[errorBody](t, w).Error)
}

func TestABTestMultivariate(t *testing.T) {
	s := newTestServer(t, nil)
	req := MultivariateRequest{
		Factors: []abtest.Factor{
			{Name: "summary", Variations: []string{"short", "long"}},
			{Name: "layout", Variations: []string{"single", "double"}},
		},
	}
	w := do(t, s, http.MethodPost, "/v1/abtest/multivariate", req, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decodeBody[MultivariateResponse](t, w)
	require.Len(t, res.Combinations, 4)
	assert.Equal(t, "combination_1", res.Combinations[0].ID)

	w = do(t, s, http.MethodPost, "/v1/abtest/multivariate", `{"factors":[{"name":"summary","variations":[]}]}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVersionsLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/v1/versions", CreateVersionRequest{
		Name:           "Metrics rewrite",
		Text:           testResume,
		Changes:        []string{"Quantified bullets"},
		JobDescription: testJD,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a := decodeBody[types.ResumeVersion](t, w)
	assert.NotEmpty(t, a.ID)
	assert.Greater(t, a.ATSScore, 0, "versions without a score are scored on create")

	w = do(t, s, http.MethodPost, "/v1/versions", CreateVersionRequest{Name: "Copy", Text: testResume}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodPost, "/v1/versions", CreateVersionRequest{Name: "Original", ATSScore: 71}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decodeBody[types.ResumeVersion](t, w)
	assert.Equal(t, 71, b.ATSScore)

	w = do(t, s, http.MethodPost, "/v1/versions", `{"name":""}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/v1/versions", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[VersionList](t, w).Versions, 2)

	w = do(t, s, http.MethodPost, "/v1/versions/"+a.ID+"/outcomes", db.OutcomeInput{Outcome: types.OutcomeInterview, Company: "Acme"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	o := decodeBody[types.ApplicationOutcome](t, w)
	assert.Equal(t, a.ID, o.ResumeVersionID)
	assert.False(t, o.AppliedAt.IsZero())

	w = do(t, s, http.MethodPost, "/v1/versions/"+a.ID+"/outcomes", `{"outcome":"ghosted"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/v1/versions/"+uuid.NewString()+"/outcomes", db.OutcomeInput{Outcome: types.OutcomeRejected}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, fmt.Sprintf("/v1/versions/report?ids=%s,%s", b.ID, a.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decodeBody[types.ABTestResults](t, w)
	require.Len(t, report.Versions, 2)
	assert.Equal(t, b.ID, report.Versions[0].ID)
	assert.Equal(t, types.StatusInsufficientData, report.Status)

	w = do(t, s, http.MethodGet, "/v1/versions/report?ids=missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVersions_Auth(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.JWTSecret = "integration-secret"
	})
	require.True(t, s.AuthEnabled())

	alice, bob := uuid.New(), uuid.New()
	aliceToken, err := s.jwtService.GenerateToken(alice)
	require.NoError(t, err)
	bobToken, err := s.jwtService.GenerateToken(bob)
	require.NoError(t, err)

	w := do(t, s, http.MethodGet, "/v1/versions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing bearer token", decodeBody[errorBody](t, w).Error)

	w = do(t, s, http.MethodGet, "/v1/versions", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/v1/versions", CreateVersionRequest{Name: "Alice v1", ATSScore: 80}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v := decodeBody[types.ResumeVersion](t, w)

	w = do(t, s, http.MethodGet, "/v1/versions", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[VersionList](t, w).Versions)

	w = do(t, s, http.MethodPost, "/v1/versions/"+v.ID+"/outcomes", db.OutcomeInput{Outcome: types.OutcomeOffer}, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/v1/versions", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[VersionList](t, w).Versions, 1)

	// Engine routes stay open.
	w = do(t, s, http.MethodPost, "/v1/extract", ExtractRequest{JobDescription: testJD}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RejectsShortSecret(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	cfg.Server.JWTSecret = "short"

	dict := dictionary.MustDefault()
	scorer, err := scoring.NewScorer(dict)
	require.NoError(t, err)
	tok := textproc.NewTokenizer(dict)
	store, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ats.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = New(cfg, Deps{
		Scorer:    scorer,
		Extractor: extraction.NewExtractor(dict),
		Gaps:      gaps.NewAnalyzer(tok),
		Semantic:  similarity.NewSemantic(dict, tok),
		Analyzer:  abtest.NewAnalyzer(),
		Store:     store,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 0.01
		cfg.Server.Burst = 2
	})

	body := ExtractRequest{JobDescription: testJD}
	for i := range 2 {
		w := do(t, s, http.MethodPost, "/v1/extract", body, "")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, fmt.Sprint(1-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := do(t, s, http.MethodPost, "/v1/extract", body, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	got := decodeBody[rateLimitBody](t, w)
	assert.Equal(t, "rate_limit_exceeded", got.Error)
	assert.Equal(t, 2, got.Limit)
	assert.Positive(t, got.RetryAfter)

	// Health checks are never limited.
	w = do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodOptions, "/v1/score", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	restricted := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.AllowedOrigins = []string{"https://app.example.com"}
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	restricted.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	restricted.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_Propagates(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/v1/nope", nil, "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/v1/score", nil, "").Code)
}

func TestStart_Shutdown(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.Port = 0
	})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"request validation", &ErrValidation{Field: "resume", Message: "required"}, http.StatusBadRequest},
		{"store validation", &db.ValidationError{Field: "name"}, http.StatusBadRequest},
		{"a/b validation", &abtest.ValidationError{Field: "versions"}, http.StatusBadRequest},
		{"configuration", &scoring.ConfigurationError{Field: "weights"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("failed to analyze: %w", &abtest.ValidationError{}), http.StatusBadRequest},
		{"not found", &db.NotFoundError{Resource: "resume version", ID: "x"}, http.StatusNotFound},
		{"conflict", &db.ConflictError{Fingerprint: "f", ExistingID: "x"}, http.StatusConflict},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"deadline", fmt.Errorf("failed to score batch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}

	assert.Equal(t, "validation error: resume - required", (&ErrValidation{Field: "resume", Message: "required"}).Error())
}
