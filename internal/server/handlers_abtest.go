package server

import (
	"net/http"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/types"
)

// AnalyzeRequest is the body of POST /v1/abtest/analyze.
type AnalyzeRequest struct {
	Versions []types.ResumeVersion      `json:"versions" validate:"required,min=1"`
	Outcomes []types.ApplicationOutcome `json:"outcomes"`
}

// CompareSide is one arm of a two-version comparison.
type CompareSide struct {
	Version  types.ResumeVersion        `json:"version"`
	Outcomes []types.ApplicationOutcome `json:"outcomes"`
}

// CompareRequest is the body of POST /v1/abtest/compare.
type CompareRequest struct {
	VersionA *CompareSide `json:"versionA" validate:"required"`
	VersionB *CompareSide `json:"versionB" validate:"required"`
}

// MultivariateRequest is the body of POST /v1/abtest/multivariate.
type MultivariateRequest struct {
	Factors  []abtest.Factor            `json:"factors" validate:"required,min=1,dive"`
	Outcomes []types.ApplicationOutcome `json:"outcomes"`
}

// MultivariateResponse pairs the generated combinations with their analysis.
type MultivariateResponse struct {
	Combinations []abtest.Combination       `json:"combinations"`
	Results      abtest.MultivariateResults `json:"results"`
}

func (s *Server) handleABTestAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Analyzer.Analyze(req.Versions, req.Outcomes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleABTestCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cmp, err := s.deps.Analyzer.CompareTwoVersions(
		req.VersionA.Version, req.VersionA.Outcomes,
		req.VersionB.Version, req.VersionB.Outcomes,
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cmp)
}

func (s *Server) handleABTestMultivariate(w http.ResponseWriter, r *http.Request) {
	var req MultivariateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	combos, err := abtest.SetupMultivariateTest(req.Factors)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Analyzer.AnalyzeMultivariateTest(combos, req.Outcomes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MultivariateResponse{Combinations: combos, Results: res})
}
