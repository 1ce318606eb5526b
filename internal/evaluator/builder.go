package evaluator

import (
	"fmt"
	"math"
	"time"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// TempAdjustConfig holds the cutoffs that select the temperature advice
// line from the signed adjustment.
type TempAdjustConfig struct {
	Max    float64 `json:"max"`
	Medium float64 `json:"medium"`
}

// ScorecardBuilder assembles one scorecard from one patient reading. It is
// pure: no I/O, no clock, no logging. Callers supply the timestamp.
type ScorecardBuilder struct {
	classifier *RiskClassifier
	engine     *RecommendationEngine
	temp       TempAdjustConfig
}

func NewScorecardBuilder(classifier *RiskClassifier, engine *RecommendationEngine, temp TempAdjustConfig) *ScorecardBuilder {
	return &ScorecardBuilder{classifier: classifier, engine: engine, temp: temp}
}

// Build validates one reading and produces its scorecard. A nil probability
// means the model emitted nothing for that category this cycle; the key must
// still be present. Validation failures reject this record only.
func (b *ScorecardBuilder) Build(patientID string, ts time.Time, probs map[models.Category]*float64, tempAdjust float64) (*models.Scorecard, error) {
	if patientID == "" {
		return nil, &ValidationError{Field: "patient_id", Reason: "must not be empty"}
	}

	var p models.Probabilities
	for _, cat := range models.Categories() {
		v, ok := probs[cat]
		if !ok {
			return nil, &ValidationError{Field: string(cat), Reason: "category key missing"}
		}
		if v != nil && (*v < 0 || *v > 1) {
			return nil, &ValidationError{
				Field:  string(cat),
				Reason: fmt.Sprintf("probability %v outside [0,1]", *v),
			}
		}
		p.SetCategory(cat, v)
	}

	levels := b.classifier.Levels(p)
	_, actions := b.engine.Recommend(levels)
	actions = append(actions, b.tempAdvice(tempAdjust))

	return &models.Scorecard{
		PatientID:          patientID,
		Timestamp:          ts.UTC(),
		Probabilities:      p,
		RiskLevels:         levels,
		TemperatureAdjustC: round2(tempAdjust),
		Recommendations:    actions,
	}, nil
}

// tempAdvice picks the advice line from the signed adjustment. Negative
// adjustments fall through to maintain. It is appended after the action cap
// so it always reaches the bedside.
func (b *ScorecardBuilder) tempAdvice(adjust float64) string {
	switch {
	case adjust >= b.temp.Max:
		return tempAdviceStrong
	case adjust >= b.temp.Medium:
		return tempAdviceModerate
	default:
		return tempAdviceMaintain
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
