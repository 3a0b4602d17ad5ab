package fitting

import (
	"fmt"
	"math"
	"strings"
)

// Status is the discrete fit label derived from a 0-100 score.
type Status string

const (
	StatusPerfect Status = "perfect"
	StatusGood    Status = "good"
	StatusLoose   Status = "loose"
	StatusTight   Status = "tight"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPerfect, StatusGood, StatusLoose, StatusTight:
		return true
	}
	return false
}

const (
	maxScore = 100.0
	minScore = 0.0

	// differences up to this many centimeters are not reported
	diffThreshold = 5.0
	diffPenalty   = 2.0

	greatFitLine = "Great fit! This outfit matches your measurements well."
)

// Result is the outcome of a single fit computation.
type Result struct {
	Score           float64 `json:"fit_score"`
	Status          Status  `json:"fit_status"`
	Recommendations string  `json:"recommendations"`
}

// StatusForScore maps a score to its status. Thresholds are inclusive.
func StatusForScore(score float64) Status {
	switch {
	case score >= 90:
		return StatusPerfect
	case score >= 75:
		return StatusGood
	case score >= 50:
		return StatusLoose
	default:
		return StatusTight
	}
}

func clampScore(score float64) float64 {
	return math.Max(minScore, math.Min(maxScore, score))
}

func fitDirection(outfitValue, userValue float64) string {
	if outfitValue < userValue {
		return "tight"
	}
	return "loose"
}

// RuleScorer is the deterministic fit scorer. Missing measurements on either
// side are read as zero.
type RuleScorer struct{}

// Score compares a body against a garment and returns score, status and one
// guidance line per flagged area.
func (RuleScorer) Score(user, outfit Set) Result {
	score := maxScore
	var lines []string

	for _, a := range scoredAreas {
		u, o := a.get(user), a.get(outfit)
		diff := math.Abs(o - u)
		if diff <= diffThreshold {
			continue
		}
		score -= diff * diffPenalty
		lines = append(lines, fmt.Sprintf("%s fit may be %s", a.label, fitDirection(o, u)))
	}

	score = clampScore(score)
	if len(lines) == 0 {
		lines = append(lines, greatFitLine)
	}

	return Result{
		Score:           score,
		Status:          StatusForScore(score),
		Recommendations: strings.Join(lines, "\n"),
	}
}
