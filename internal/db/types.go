package db

import (
	"time"

	"github.com/jonathan/ats-engine/internal/types"
)

// VersionInput holds the fields of a new résumé version.
type VersionInput struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Text     string   `json:"text"`
	Changes  []string `json:"changes" validate:"omitempty,dive,required"`
	ATSScore int      `json:"atsScore" validate:"gte=0,lte=100"`
}

// OutcomeInput holds one application result. A zero AppliedAt is replaced
// by the store clock.
type OutcomeInput struct {
	Outcome        types.Outcome `json:"outcome" validate:"required"`
	DaysToResponse float64       `json:"daysToResponse" validate:"gte=0"`
	JobTitle       string        `json:"jobTitle" validate:"max=200"`
	Company        string        `json:"company" validate:"max=200"`
	CombinationID  string        `json:"combinationId" validate:"max=100"`
	AppliedAt      time.Time     `json:"appliedAt"`
}
