// internal/survey/builder.go
// Turns an ordered survey submission into a PreferenceProfile. Earlier
// picks within a round always carry strictly larger weights than later
// ones, so click order doubles as an implicit ranking.

package survey

import (
	"fmt"
	"sort"
	"time"

	"github.com/sfuqua6/foodie/internal/common/utils"
	"github.com/sfuqua6/foodie/internal/taxonomy"
)

const scorePerWeight = 10

// Build validates a submission against the canonical taxonomy and derives
// the user's preference profile. Any taxonomy miss or round size violation
// returns a ValidationError; nothing is persisted here.
func Build(userID int64, sub *SurveySubmission) (*PreferenceProfile, error) {
	if sub == nil || len(sub.Rounds) == 0 {
		return nil, utils.NewValidationError("rounds", "at least one survey round is required")
	}

	profile := &PreferenceProfile{
		UserID:     userID,
		Categories: make(map[string]map[string]OptionWeight, len(sub.Rounds)),
		UpdatedAt:  time.Now().UTC(),
	}

	seenCategories := make(map[string]bool, len(sub.Rounds))

	for roundNum, round := range sub.Rounds {
		cat, ok := taxonomy.CategoryByName(round.Category)
		if !ok {
			return nil, utils.NewValidationError("category", fmt.Sprintf("unknown category %q", round.Category))
		}
		if seenCategories[round.Category] {
			return nil, utils.NewValidationError("category", fmt.Sprintf("duplicate round for category %q", round.Category))
		}
		seenCategories[round.Category] = true

		if len(round.Selections) < cat.MinSelections {
			return nil, utils.NewValidationError(round.Category,
				fmt.Sprintf("requires at least %d selections, got %d", cat.MinSelections, len(round.Selections)))
		}
		if len(round.Selections) > cat.MaxSelections {
			return nil, utils.NewValidationError(round.Category,
				fmt.Sprintf("allows at most %d selections, got %d", cat.MaxSelections, len(round.Selections)))
		}

		// Selections are scored in click order regardless of how the
		// client numbered them.
		ordered := make([]Selection, len(round.Selections))
		copy(ordered, round.Selections)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].SelectionOrder < ordered[j].SelectionOrder
		})

		weights := make(map[string]OptionWeight, len(ordered))
		for i, sel := range ordered {
			if !taxonomy.IsKnownOption(round.Category, sel.OptionID) {
				return nil, utils.NewValidationError(round.Category,
					fmt.Sprintf("unknown option %q", sel.OptionID))
			}
			if _, dup := weights[sel.OptionID]; dup {
				return nil, utils.NewValidationError(round.Category,
					fmt.Sprintf("option %q selected twice", sel.OptionID))
			}
			weight := float64(cat.MaxSelections - i)
			weights[sel.OptionID] = OptionWeight{
				Weight:         weight,
				RoundSurvived:  roundNum + 1,
				SelectionOrder: i + 1,
			}
			profile.Score += int(weight) * scorePerWeight
		}
		profile.Categories[round.Category] = weights
		profile.CompletedRounds++
	}

	profile.Strength = float64(profile.CompletedRounds) / float64(taxonomy.TotalRounds)
	return profile, nil
}
