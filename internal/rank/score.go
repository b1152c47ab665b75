// Package rank scores issues for first-contribution friendliness and
// orders issue collections by a chosen criterion.
package rank

import (
	"strings"
	"time"

	"github.com/issuescout/issue-scout/internal/issue"
)

// Scoring weights and caps. Label bonuses do not stack: only the single
// best label counts.
const (
	reactionWeight     = 2.0
	freshnessPerDay    = 0.5
	freshnessWindow    = 30.0 // days until the freshness bonus decays to zero
	freshnessCap       = 15.0
	commentPenaltyStep = 0.5
	commentPenaltyCap  = 10.0
)

// labelBonuses maps beginner-friendly labels, matched case-insensitively,
// to their score contribution.
var labelBonuses = map[string]float64{
	"good first issue": 15,
	"help wanted":      10,
	"easy":             5,
	"starter":          5,
}

// Scorer computes relevance scores. The clock is injectable so tests can
// pin "now"; aside from that dependency, scoring is a pure function of
// the issue, which also makes it time-sensitive: scores must be
// recomputed whenever a ranking is requested, never cached on the issue.
type Scorer struct {
	now func() time.Time
}

// NewScorer returns a Scorer that reads the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt returns a Scorer with a fixed clock, for tests and
// reproducible rankings.
func NewScorerAt(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// Score computes the relevance of one issue:
//
//	positive reactions ×2 (uncapped)
//	+ freshness bonus, (30 − ageDays) × 0.5 clamped to [0, 15]
//	+ best matching label bonus
//	− comment penalty, comments × 0.5 clamped to [0, 10]
//
// The result may be negative. Missing reactions, labels, or comment
// counts contribute zero; they are never errors.
func (s *Scorer) Score(iss issue.Issue) float64 {
	score := float64(iss.Reactions.Positive()) * reactionWeight
	score += s.freshnessBonus(iss.CreatedAt)
	score += labelBonus(iss.Labels)
	score -= commentPenalty(iss.Comments)
	return score
}

// freshnessBonus decays linearly from the cap to zero over the freshness
// window. Future timestamps clamp at the cap; they are never penalized.
func (s *Scorer) freshnessBonus(created time.Time) float64 {
	if created.IsZero() {
		return 0
	}
	ageDays := s.now().Sub(created).Hours() / 24
	return clamp((freshnessWindow-ageDays)*freshnessPerDay, 0, freshnessCap)
}

func labelBonus(labels []string) float64 {
	best := 0.0
	for _, label := range labels {
		if bonus, ok := labelBonuses[strings.ToLower(strings.TrimSpace(label))]; ok && bonus > best {
			best = bonus
		}
	}
	return best
}

func commentPenalty(comments int) float64 {
	return clamp(float64(comments)*commentPenaltyStep, 0, commentPenaltyCap)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
