// internal/survey/vector.go

package survey

import "github.com/sfuqua6/foodie/internal/taxonomy"

// ToVector flattens a profile into the canonical taxonomy space and
// L2-normalizes it. Options outside the taxonomy are dropped, unselected
// slots stay 0, and a profile with zero total weight projects to the zero
// vector ("no signal").
func ToVector(profile *PreferenceProfile) taxonomy.Vector {
	v := taxonomy.NewVector()
	if profile == nil {
		return v
	}
	for category, options := range profile.Categories {
		for optionID, ow := range options {
			if slot, ok := taxonomy.Slot(category, optionID); ok {
				v[slot] = ow.Weight
			}
		}
	}
	return v.Normalize()
}

// VectorsByUser projects a batch of profiles, skipping zero vectors since
// they carry no comparable signal.
func VectorsByUser(profiles []PreferenceProfile) map[int64]taxonomy.Vector {
	out := make(map[int64]taxonomy.Vector, len(profiles))
	for i := range profiles {
		v := ToVector(&profiles[i])
		if v.IsZero() {
			continue
		}
		out[profiles[i].UserID] = v
	}
	return out
}
