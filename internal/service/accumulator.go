package service

import "archetype-quiz/internal/domain"

// ApplyOption folds an option's trait deltas into the session vector and
// returns it. Deltas for traits outside the vector's schema are ignored, so
// question files may reference traits a deployed model does not know yet.
// The vector's key set is never extended.
func ApplyOption(vec domain.TraitVector, opt domain.Option) domain.TraitVector {
	for trait, delta := range opt.Traits {
		if _, ok := vec[trait]; ok {
			vec[trait] += delta
		}
	}
	return vec
}
