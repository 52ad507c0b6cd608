// internal/survey/service.go

package survey

import (
	"context"
	"log"
	"sort"

	"github.com/sfuqua6/foodie/internal/taxonomy"
)

const previewSize = 5

// Previewer supplies the small recommendation list attached to a
// successful submission. Wired from the recommendation engine at startup;
// a nil Previewer simply omits the preview.
type Previewer interface {
	Preview(ctx context.Context, userID int64, limit int) ([]RecommendationPreview, error)
}

// Service defines the survey service interface
type Service interface {
	SubmitSurvey(ctx context.Context, userID int64, sub *SurveySubmission) (*SubmitResult, error)
	GetProfile(ctx context.Context, userID int64) (*PreferenceProfile, error)
	DeleteProfile(ctx context.Context, userID int64) error
	GetAnalysis(ctx context.Context, userID int64) (*TasteAnalysis, error)
}

type service struct {
	store     Store
	previewer Previewer
}

// NewService creates a new survey service
func NewService(store Store, previewer Previewer) Service {
	return &service{store: store, previewer: previewer}
}

func (s *service) SubmitSurvey(ctx context.Context, userID int64, sub *SurveySubmission) (*SubmitResult, error) {
	profile, err := Build(userID, sub)
	if err != nil {
		return nil, err
	}

	if err := s.store.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Profile: ProfileSummary{
			CompletedRounds: profile.CompletedRounds,
			Score:           profile.Score,
			Strength:        profile.Strength,
		},
		Preview: []RecommendationPreview{},
	}

	// The preview is best-effort; a freshly stored profile must never be
	// lost to a recommendation hiccup.
	if s.previewer != nil {
		preview, err := s.previewer.Preview(ctx, userID, previewSize)
		if err != nil {
			log.Printf("survey: preview for user %d failed: %v", userID, err)
		} else {
			result.Preview = preview
		}
	}

	return result, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*PreferenceProfile, error) {
	return s.store.Get(ctx, userID)
}

func (s *service) DeleteProfile(ctx context.Context, userID int64) error {
	return s.store.Delete(ctx, userID)
}

func (s *service) GetAnalysis(ctx context.Context, userID int64) (*TasteAnalysis, error) {
	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Analyze(profile), nil
}

// Analyze derives the taste analysis view from a stored profile.
func Analyze(profile *PreferenceProfile) *TasteAnalysis {
	analysis := &TasteAnalysis{
		TopPreferences:  make(map[string][]string, len(profile.Categories)),
		AdventureLevel:  "unknown",
		ProfileStrength: profile.Strength,
		CompletedRounds: profile.CompletedRounds,
	}

	totalOptions := 0
	selectedOptions := 0
	for _, cat := range taxonomy.Categories {
		totalOptions += len(cat.Options)
		options, ok := profile.Categories[cat.Name]
		if !ok {
			continue
		}
		selectedOptions += len(options)
		analysis.TopPreferences[cat.Name] = topOptions(options, 3)
	}
	if totalOptions > 0 {
		analysis.DiversityScore = float64(selectedOptions) / float64(totalOptions)
	}

	if adventure, ok := profile.Categories["adventure"]; ok {
		if top := topOptions(adventure, 1); len(top) > 0 {
			analysis.AdventureLevel = adventureLabel(top[0])
		}
	}

	return analysis
}

// topOptions returns up to n option ids ordered by descending weight,
// breaking ties on selection order then option id for stable output.
func topOptions(options map[string]OptionWeight, n int) []string {
	ids := make([]string, 0, len(options))
	for id := range options {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := options[ids[i]], options[ids[j]]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if a.SelectionOrder != b.SelectionOrder {
			return a.SelectionOrder < b.SelectionOrder
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func adventureLabel(optionID string) string {
	switch optionID {
	case "stick_to_favorites":
		return "creature of habit"
	case "mild_adventurer":
		return "cautious explorer"
	case "food_explorer":
		return "food explorer"
	case "extreme_foodie":
		return "extreme foodie"
	case "try_anything_once":
		return "open-minded taster"
	default:
		return "unknown"
	}
}
