// Package feed produces synthetic model outputs and drives the
// build-and-publish cycle. It stands in for the external scoring
// pipeline so the serving path can run without live models.
package feed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// PatientReading is one patient's raw model outputs for a single cycle.
// A nil probability means the model produced no output for that category.
type PatientReading struct {
	PatientID     string
	Probabilities map[models.Category]*float64
	TempAdjust    float64
}

// Generator produces readings for a fixed census of synthetic patients.
// Each (patient, category) probability follows a bounded random walk so
// successive cycles look like an evolving unit rather than white noise.
type Generator struct {
	rng     *rand.Rand
	ids     []string
	current map[string]map[models.Category]float64
	pAbsent float64
}

// NewGenerator creates a generator for n patients. A zero seed seeds from
// the clock; any other seed makes the run reproducible.
func NewGenerator(n int, seed int64) *Generator {
	if n <= 0 {
		n = 1
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := &Generator{
		rng:     rng,
		ids:     make([]string, 0, n),
		current: make(map[string]map[models.Category]float64, n),
		pAbsent: 0.05,
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("LIVE-%03d", i)
		g.ids = append(g.ids, id)

		probs := make(map[models.Category]float64, len(models.Categories()))
		for _, cat := range models.Categories() {
			probs[cat] = rng.Float64() * 0.6
		}
		g.current[id] = probs
	}
	return g
}

// Next advances every patient one walk step and returns the cycle's
// readings in stable patient order.
func (g *Generator) Next() []PatientReading {
	readings := make([]PatientReading, 0, len(g.ids))
	for _, id := range g.ids {
		state := g.current[id]

		out := make(map[models.Category]*float64, len(state))
		worst := 0.0
		for _, cat := range models.Categories() {
			p := clamp01(state[cat] + (g.rng.Float64()-0.5)*0.12)
			state[cat] = p
			if p > worst {
				worst = p
			}

			if g.rng.Float64() < g.pAbsent {
				out[cat] = nil
			} else {
				v := p
				out[cat] = &v
			}
		}

		readings = append(readings, PatientReading{
			PatientID:     id,
			Probabilities: out,
			TempAdjust:    tempForRisk(worst),
		})
	}
	return readings
}

// tempForRisk maps the worst category probability to a cooling
// adjustment in degC. Quiet patients get zero; the scale tops out
// at 1.2.
func tempForRisk(worst float64) float64 {
	delta := (worst - 0.25) * 1.6
	if delta < 0 {
		delta = 0
	}
	if delta > 1.2 {
		delta = 1.2
	}
	return math.Round(delta*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
