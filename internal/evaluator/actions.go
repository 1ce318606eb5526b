package evaluator

import (
	"fmt"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// Temperature advice lines appended to every recommendation list. The
// cutoffs that pick between them live in TempAdjustConfig.
const (
	tempAdviceStrong   = "Strongly consider temperature reduction by ~1.0°C."
	tempAdviceModerate = "Consider temperature reduction by ~0.5°C."
	tempAdviceMaintain = "Maintain current temperature; continue monitoring."
)

// ActionCatalog maps every (category, level) pair to its fixed, ordered
// action list. A missing or empty entry is a configuration defect caught
// by Validate at startup, never a runtime surprise.
type ActionCatalog map[models.Category]map[models.Level][]string

// Validate checks that every (category, level) pair has a non-empty list.
func (c ActionCatalog) Validate() error {
	for _, cat := range models.Categories() {
		byLevel, ok := c[cat]
		if !ok {
			return &ConfigError{Param: string(cat), Reason: "missing action catalog entry"}
		}
		for _, lvl := range models.Levels() {
			if len(byLevel[lvl]) == 0 {
				return &ConfigError{
					Param:  fmt.Sprintf("%s/%s", cat, lvl),
					Reason: "empty action list",
				}
			}
		}
	}
	return nil
}

// DefaultCatalog returns the standing clinical action table. LOW lists are
// routine monitoring (some lines shared across categories on purpose; the
// engine deduplicates them); MED and HIGH lists open with the established
// escalation action for the category.
func DefaultCatalog() ActionCatalog {
	return ActionCatalog{
		models.CategorySeizure: {
			models.LevelLow: {
				"Continue routine monitoring per unit protocol.",
				"Maintain scheduled neuro checks.",
				"Reassess risk at next scheduled review.",
			},
			models.LevelMed: {
				"Increase neuro checks frequency; consider EEG if symptomatic.",
				"Review current antiseizure prophylaxis and levels.",
				"Document any clinical seizure activity immediately.",
				"Verify IV access for rescue medication.",
			},
			models.LevelHigh: {
				"Initiate continuous EEG; review antiseizure therapy.",
				"Notify neurology for urgent review.",
				"Prepare rescue benzodiazepine per protocol.",
				"Check electrolytes, glucose, and drug levels now.",
				"Increase bedside observation to continuous.",
			},
		},
		models.CategorySepsis: {
			models.LevelLow: {
				"Continue routine monitoring per unit protocol.",
				"Maintain temperature and perfusion checks.",
				"Reassess risk at next scheduled review.",
			},
			models.LevelMed: {
				"Trend lactate; monitor vitals and labs closely.",
				"Screen for new infection sources.",
				"Reassess perfusion and urine output this shift.",
				"Review antibiotic coverage with pharmacy.",
			},
			models.LevelHigh: {
				"Sepsis bundle: cultures, antibiotics, fluids per protocol.",
				"Draw blood cultures before antibiotics.",
				"Start broad-spectrum antibiotics within the hour.",
				"Begin fluid resuscitation; reassess after each bolus.",
				"Escalate to intensivist; consider vasopressor readiness.",
				"Repeat lactate within 2 hours.",
			},
		},
		models.CategoryCardiac: {
			models.LevelLow: {
				"Continue routine monitoring per unit protocol.",
				"Maintain telemetry per standing orders.",
				"Reassess risk at next scheduled review.",
			},
			models.LevelMed: {
				"Increase telemetry vigilance; review medications impacting QT/MAP.",
				"Obtain 12-lead ECG if rhythm changes.",
				"Trend MAP against perfusion targets.",
			},
			models.LevelHigh: {
				"Cardiac consult; optimize MAP and rhythm management.",
				"Obtain urgent 12-lead ECG and troponin.",
				"Review inotrope and vasopressor requirements.",
				"Correct potassium and magnesium to target.",
				"Continuous arterial pressure monitoring if available.",
			},
		},
		models.CategoryRenal: {
			models.LevelLow: {
				"Continue routine monitoring per unit protocol.",
				"Track urine output each shift.",
				"Reassess risk at next scheduled review.",
			},
			models.LevelMed: {
				"Monitor urine output and creatinine; adjust dosing.",
				"Review nephrotoxic medication exposure.",
				"Assess volume status and fluid balance.",
			},
			models.LevelHigh: {
				"Renal consult; adjust nephrotoxic meds; optimize fluids.",
				"Strict hourly intake/output charting.",
				"Check potassium and acid-base status now.",
				"Dose-adjust renally cleared medications.",
				"Evaluate need for renal replacement therapy.",
			},
		},
		models.CategoryPrognosis: {
			models.LevelLow: {
				"Continue routine monitoring per unit protocol.",
				"Keep family updated at routine intervals.",
				"Reassess risk at next scheduled review.",
			},
			models.LevelMed: {
				"Ensure multidisciplinary review; reassess trajectory in 12h.",
				"Update family on current trajectory.",
				"Confirm monitoring plan covers the overnight period.",
			},
			models.LevelHigh: {
				"Discuss goals of care; consider advanced monitoring/support.",
				"Arrange senior clinician review today.",
				"Convene family meeting within 24 hours.",
				"Review escalation and resuscitation status.",
				"Consider palliative care consultation.",
			},
		},
	}
}
