package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/types"
)

// ScoreRequest is the body of POST /v1/score. An empty résumé yields the
// degenerate result rather than an error.
type ScoreRequest struct {
	Resume         string         `json:"resume"`
	JobDescription string         `json:"jobDescription"`
	Weights        map[string]any `json:"weights,omitempty"`
}

// BatchScoreRequest is the body of POST /v1/score/batch.
type BatchScoreRequest struct {
	Resumes        []string       `json:"resumes" validate:"required,min=1,max=100"`
	JobDescription string         `json:"jobDescription"`
	Weights        map[string]any `json:"weights,omitempty"`
}

// BatchScoreResponse keeps results in request order.
type BatchScoreResponse struct {
	Results []types.ScoreResult `json:"results"`
}

// PairRequest carries a résumé and a job description. An empty job
// description is answered with a result, not an error.
type PairRequest struct {
	Resume         string `json:"resume" validate:"required"`
	JobDescription string `json:"jobDescription"`
}

// ExtractRequest is the body of POST /v1/extract.
type ExtractRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	weights, err := s.weights(req.Weights)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.deps.Scorer.Score(req.Resume, req.JobDescription, weights)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	weights, err := s.weights(req.Weights)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.deps.Scorer.ScoreBatch(r.Context(), req.Resumes, req.JobDescription, weights)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, BatchScoreResponse{Results: results})
}

func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job := s.deps.Extractor.ExtractJobEntities(req.JobDescription)
	s.jsonResponse(w, http.StatusOK, s.deps.Gaps.AnalyzeGaps(req.Resume, job))
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.deps.Extractor.ExtractJobEntities(req.JobDescription))
}

func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rel := s.deps.Semantic.CalculateContextualRelevance(
		req.Resume,
		req.JobDescription,
		s.deps.Extractor.SkillNames(req.Resume),
		s.deps.Extractor.SkillNames(req.JobDescription),
	)
	s.jsonResponse(w, http.StatusOK, rel)
}

// weights resolves a per-request override, falling back to the configured
// weights.
func (s *Server) weights(raw map[string]any) (*scoring.MLWeights, error) {
	if raw == nil {
		return s.deps.Weights, nil
	}
	return config.DecodeMLWeights(raw)
}

// decode reads a size-limited JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return err
		case errors.Is(err, io.EOF):
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			_, field, _ := strings.Cut(fe.Namespace(), ".")
			return &ErrValidation{Field: field, Message: fmt.Sprintf("failed %q constraint", fe.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}
