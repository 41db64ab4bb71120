// Package classification implements the security-tier scoring engine: five
// criterion scores summed and banded against configurable thresholds.
package classification

import (
	"fmt"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

const (
	MinCriterion = 1
	MaxCriterion = 3

	MinTotal = 5 * MinCriterion
	MaxTotal = 5 * MaxCriterion
)

// Scores holds the five criterion scores, each in [1,3].
type Scores struct {
	Confidentiality int `json:"confidentiality"`
	Integrity       int `json:"integrity"`
	Availability    int `json:"availability"`
	Authenticity    int `json:"authenticity"`
	NonRepudiation  int `json:"non_repudiation"`
}

func (s Scores) Total() int {
	return s.Confidentiality + s.Integrity + s.Availability + s.Authenticity + s.NonRepudiation
}

// Validate checks the score domain. Callers run this before Classify; the
// engine itself assumes valid input.
func (s Scores) Validate() error {
	var ve *apperr.ValidationError
	check := func(field string, v int) {
		if v < MinCriterion || v > MaxCriterion {
			if ve == nil {
				ve = &apperr.ValidationError{}
			}
			ve.Add(field, fmt.Sprintf("must be between %d and %d", MinCriterion, MaxCriterion))
		}
	}
	check("confidentiality", s.Confidentiality)
	check("integrity", s.Integrity)
	check("availability", s.Availability)
	check("authenticity", s.Authenticity)
	check("non_repudiation", s.NonRepudiation)
	if ve != nil {
		return ve
	}
	return nil
}

// Thresholds is the immutable value object read at evaluation time.
type Thresholds struct {
	High   int `json:"high_threshold"`
	Medium int `json:"medium_threshold"`
}

// DefaultThresholds yields Rendah for a total of 5, Sedang for 6..10 and
// Tinggi for 11..15.
var DefaultThresholds = Thresholds{High: 11, Medium: 6}

func (t Thresholds) Validate() error {
	switch {
	case t.Medium <= MinTotal:
		return apperr.Validation("medium_threshold", fmt.Sprintf("must be greater than %d", MinTotal))
	case t.High <= t.Medium:
		return apperr.Validation("high_threshold", "must be greater than medium_threshold")
	case t.High > MaxTotal:
		return apperr.Validation("high_threshold", fmt.Sprintf("must not exceed %d", MaxTotal))
	}
	return nil
}

// Classify maps a score tuple to its tier. Pure and total for the valid
// domain; it never assigns TierBelumDinilai, which is a read-side label for
// assets without assessments.
func Classify(s Scores, t Thresholds) models.Tier {
	total := s.Total()
	switch {
	case total >= t.High:
		return models.TierTinggi
	case total >= t.Medium:
		return models.TierSedang
	}
	return models.TierRendah
}
