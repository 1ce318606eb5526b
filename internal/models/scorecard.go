package models

import "time"

// Category is one of the five clinical risk domains the CDS engine tracks.
// The set is closed: the classifier threshold table and the recommendation
// catalog are both keyed by it and validated together at startup.
type Category string

const (
	CategorySeizure   Category = "seizure"
	CategorySepsis    Category = "sepsis"
	CategoryCardiac   Category = "cardiac"
	CategoryRenal     Category = "renal"
	CategoryPrognosis Category = "prognosis"
)

// Categories returns the closed category set in canonical order.
func Categories() []Category {
	return []Category{
		CategorySeizure,
		CategorySepsis,
		CategoryCardiac,
		CategoryRenal,
		CategoryPrognosis,
	}
}

// Level is a discretized risk severity.
type Level string

const (
	LevelLow  Level = "LOW"
	LevelMed  Level = "MED"
	LevelHigh Level = "HIGH"
)

// Levels returns all levels ordered from least to most severe.
func Levels() []Level {
	return []Level{LevelLow, LevelMed, LevelHigh}
}

// Rank orders levels by severity: LOW=0, MED=1, HIGH=2.
func (l Level) Rank() int {
	switch l {
	case LevelHigh:
		return 2
	case LevelMed:
		return 1
	default:
		return 0
	}
}

// Probabilities carries the per-category model outputs for one patient.
// A nil field means no measurement is available; it serializes as an
// explicit null (never omitted, never coerced to 0) so clients can render
// "N/A" distinctly from a true low probability. The prognosis probability
// travels as "prognosis_poor_outcome" on the wire; the matching risk level
// key is plain "prognosis".
type Probabilities struct {
	Seizure   *float64 `json:"seizure"`
	Sepsis    *float64 `json:"sepsis"`
	Cardiac   *float64 `json:"cardiac"`
	Renal     *float64 `json:"renal"`
	Prognosis *float64 `json:"prognosis_poor_outcome"`
}

// ForCategory returns the probability pointer for the given category.
func (p *Probabilities) ForCategory(c Category) *float64 {
	switch c {
	case CategorySeizure:
		return p.Seizure
	case CategorySepsis:
		return p.Sepsis
	case CategoryCardiac:
		return p.Cardiac
	case CategoryRenal:
		return p.Renal
	case CategoryPrognosis:
		return p.Prognosis
	default:
		return nil
	}
}

// SetCategory stores the probability pointer for the given category.
func (p *Probabilities) SetCategory(c Category, v *float64) {
	switch c {
	case CategorySeizure:
		p.Seizure = v
	case CategorySepsis:
		p.Sepsis = v
	case CategoryCardiac:
		p.Cardiac = v
	case CategoryRenal:
		p.Renal = v
	case CategoryPrognosis:
		p.Prognosis = v
	}
}

// RiskLevels holds the discretized level for every category. It is always
// fully populated: an absent probability still produces a level.
type RiskLevels struct {
	Seizure   Level `json:"seizure"`
	Sepsis    Level `json:"sepsis"`
	Cardiac   Level `json:"cardiac"`
	Renal     Level `json:"renal"`
	Prognosis Level `json:"prognosis"`
}

// ForCategory returns the level for the given category.
func (r *RiskLevels) ForCategory(c Category) Level {
	switch c {
	case CategorySeizure:
		return r.Seizure
	case CategorySepsis:
		return r.Sepsis
	case CategoryCardiac:
		return r.Cardiac
	case CategoryRenal:
		return r.Renal
	case CategoryPrognosis:
		return r.Prognosis
	default:
		return LevelLow
	}
}

// SetCategory stores the level for the given category.
func (r *RiskLevels) SetCategory(c Category, l Level) {
	switch c {
	case CategorySeizure:
		r.Seizure = l
	case CategorySepsis:
		r.Sepsis = l
	case CategoryCardiac:
		r.Cardiac = l
	case CategoryRenal:
		r.Renal = l
	case CategoryPrognosis:
		r.Prognosis = l
	}
}

// Scorecard is one patient's point-in-time risk snapshot. Immutable once
// built; a new measurement produces a new Scorecard, never an edit.
type Scorecard struct {
	PatientID          string        `json:"patient_id"`
	Timestamp          time.Time     `json:"timestamp"`
	Probabilities      Probabilities `json:"probabilities"`
	RiskLevels         RiskLevels    `json:"risk_levels"`
	TemperatureAdjustC float64       `json:"temperature_adjustment_degC"`
	Recommendations    []string      `json:"recommendations"`
}

// HasHighRisk reports whether any category sits at HIGH.
func (s *Scorecard) HasHighRisk() bool {
	for _, c := range Categories() {
		if s.RiskLevels.ForCategory(c) == LevelHigh {
			return true
		}
	}
	return false
}

// Batch is an immutable collection of scorecards published together, one
// per patient. Its external identity is a name derived from GeneratedAt
// such that lexicographic order of names equals chronological order.
type Batch struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Items       []Scorecard `json:"items"`
}

// HighRiskCount returns how many scorecards carry at least one HIGH level.
func (b *Batch) HighRiskCount() int {
	n := 0
	for i := range b.Items {
		if b.Items[i].HasHighRisk() {
			n++
		}
	}
	return n
}
