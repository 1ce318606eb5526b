package evaluator

import (
	"fmt"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// Threshold holds the two cutoffs for one category.
// Invariant: 0 <= Medium <= High <= 1, checked once at load time.
type Threshold struct {
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Thresholds maps every category to its cutoffs. One instance, built by
// config.Load, is shared by the classifier and by the thresholds endpoint
// so serving logic and displayed cutoffs can never drift apart.
type Thresholds map[models.Category]Threshold

// Validate checks that every category is present and its cutoffs satisfy
// 0 <= medium <= high <= 1.
func (t Thresholds) Validate() error {
	for _, c := range models.Categories() {
		th, ok := t[c]
		if !ok {
			return &ConfigError{Param: string(c), Reason: "missing threshold entry"}
		}
		if th.Medium < 0 || th.High > 1 || th.Medium > th.High {
			return &ConfigError{
				Param:  string(c),
				Reason: fmt.Sprintf("cutoffs must satisfy 0 <= medium <= high <= 1, got medium=%.2f high=%.2f", th.Medium, th.High),
			}
		}
	}
	return nil
}

// DefaultThresholds returns the standing per-category cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		models.CategorySeizure:   {Medium: 0.40, High: 0.70},
		models.CategorySepsis:    {Medium: 0.35, High: 0.65},
		models.CategoryCardiac:   {Medium: 0.30, High: 0.60},
		models.CategoryRenal:     {Medium: 0.30, High: 0.60},
		models.CategoryPrognosis: {Medium: 0.40, High: 0.65},
	}
}

// RiskClassifier discretizes probabilities against per-category cutoffs.
type RiskClassifier struct {
	thresholds Thresholds
}

// NewRiskClassifier validates the cutoff table once; after that,
// classification never fails.
func NewRiskClassifier(t Thresholds) (*RiskClassifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &RiskClassifier{thresholds: t}, nil
}

// Classify maps one probability to a level. A nil probability means no
// measurement and classifies LOW (fail safe to least alarming); the caller
// keeps the nil visible so consumers can tell "N/A" from a true LOW. A
// value exactly at a cutoff escalates to the higher tier.
func (rc *RiskClassifier) Classify(c models.Category, prob *float64) models.Level {
	if prob == nil {
		return models.LevelLow
	}
	t := rc.thresholds[c]
	switch {
	case *prob >= t.High:
		return models.LevelHigh
	case *prob >= t.Medium:
		return models.LevelMed
	default:
		return models.LevelLow
	}
}

// Levels classifies all five categories at once.
func (rc *RiskClassifier) Levels(probs models.Probabilities) models.RiskLevels {
	var out models.RiskLevels
	for _, c := range models.Categories() {
		out.SetCategory(c, rc.Classify(c, probs.ForCategory(c)))
	}
	return out
}
