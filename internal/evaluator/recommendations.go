package evaluator

import (
	"sort"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// categoryPriority breaks severity ties: when two categories sit at the
// same level, the earlier one here contributes its actions first.
var categoryPriority = []models.Category{
	models.CategoryPrognosis,
	models.CategoryCardiac,
	models.CategorySepsis,
	models.CategoryRenal,
	models.CategorySeizure,
}

// RecommendationEngine turns a set of per-category risk levels into an
// ordered, de-duplicated action list drawn from a fixed catalog.
type RecommendationEngine struct {
	catalog    ActionCatalog
	maxActions int
}

// NewRecommendationEngine validates the catalog up front. maxActions caps
// the assembled list; 0 disables the cap.
func NewRecommendationEngine(catalog ActionCatalog, maxActions int) (*RecommendationEngine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if maxActions < 0 {
		return nil, &ConfigError{Param: "max_actions", Reason: "must not be negative"}
	}
	return &RecommendationEngine{catalog: catalog, maxActions: maxActions}, nil
}

// rankCategories orders categories by descending risk level, with the fixed
// priority order deciding ties. The sort is stable so equal-level categories
// keep their priority positions.
func rankCategories(levels models.RiskLevels) []models.Category {
	ranked := make([]models.Category, len(categoryPriority))
	copy(ranked, categoryPriority)
	sort.SliceStable(ranked, func(i, j int) bool {
		return levels.ForCategory(ranked[i]).Rank() > levels.ForCategory(ranked[j]).Rank()
	})
	return ranked
}

// Recommend assembles the action list for the given levels and returns the
// primary action plus the full list. The first action of the highest-ranked
// category always survives dedup and any cap, so primary is actions[0].
// All-LOW input still yields the routine monitoring actions, never an
// empty list.
func (e *RecommendationEngine) Recommend(levels models.RiskLevels) (string, []string) {
	var actions []string
	seen := make(map[string]struct{})
	for _, cat := range rankCategories(levels) {
		for _, action := range e.catalog[cat][levels.ForCategory(cat)] {
			if _, ok := seen[action]; ok {
				continue
			}
			seen[action] = struct{}{}
			actions = append(actions, action)
		}
	}
	if e.maxActions > 0 && len(actions) > e.maxActions {
		actions = actions[:e.maxActions]
	}
	return actions[0], actions
}
