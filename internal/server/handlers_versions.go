package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/server/middleware"
	"github.com/jonathan/ats-engine/internal/types"
)

// CreateVersionRequest is the body of POST /v1/versions. When ATSScore is
// zero and text is present the version is scored against JobDescription.
type CreateVersionRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Text           string   `json:"text"`
	Changes        []string `json:"changes" validate:"omitempty,dive,required"`
	ATSScore       int      `json:"atsScore" validate:"gte=0,lte=100"`
	JobDescription string   `json:"jobDescription"`
}

// VersionList is the body of GET /v1/versions.
type VersionList struct {
	Versions []types.ResumeVersion `json:"versions"`
}

func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	var req CreateVersionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	input := db.VersionInput{
		Name:     req.Name,
		Text:     req.Text,
		Changes:  req.Changes,
		ATSScore: req.ATSScore,
	}
	if input.ATSScore == 0 && strings.TrimSpace(input.Text) != "" {
		res, err := s.deps.Scorer.Score(input.Text, req.JobDescription, s.deps.Weights)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		input.ATSScore = res.Score
	}

	owner := middleware.OwnerID(r)
	v, err := s.deps.Store.CreateVersion(r.Context(), owner, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("version created",
		zap.String("id", v.ID),
		zap.String("owner", owner.String()),
		zap.Int("ats_score", v.ATSScore),
	)
	s.jsonResponse(w, http.StatusCreated, v)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.deps.Store.ListVersions(r.Context(), middleware.OwnerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, VersionList{Versions: versions})
}

func (s *Server) handleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	var req db.OutcomeInput
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.deps.Store.RecordOutcome(r.Context(), middleware.OwnerID(r), r.PathValue("id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, o)
}

// handleVersionReport analyzes stored versions. ?ids=a,b restricts and
// orders the versions.
func (s *Server) handleVersionReport(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	res, err := db.Report(r.Context(), s.deps.Store, s.deps.Analyzer, middleware.OwnerID(r), ids...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}
