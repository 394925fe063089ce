package domain

// TraitVector holds the accumulated score per trait for one quiz session.
// Its key set is always exactly the feature schema, never more, never less.
type TraitVector map[string]float64

// NewTraitVector returns an all-zero vector over the given schema.
func NewTraitVector(schema []string) TraitVector {
	vec := make(TraitVector, len(schema))
	for _, trait := range schema {
		vec[trait] = 0
	}
	return vec
}

// Clone returns an independent copy of the vector.
func (v TraitVector) Clone() TraitVector {
	out := make(TraitVector, len(v))
	for trait, score := range v {
		out[trait] = score
	}
	return out
}

// QuizState is the per-session mutable state: the accumulated trait vector
// plus how many answers produced it.
type QuizState struct {
	Scores   TraitVector `json:"scores"`
	Answered int         `json:"answered"`
}

// Clone returns an independent copy of the state.
func (s *QuizState) Clone() *QuizState {
	if s == nil {
		return nil
	}
	return &QuizState{Scores: s.Scores.Clone(), Answered: s.Answered}
}

// DefaultSchema lists the trait axes the bundled model was trained on.
// Order is load-bearing: index i is column i of the classifier input.
var DefaultSchema = []string{
	"Openness",
	"Conscientiousness",
	"Extraversion",
	"Agreeableness",
	"Neuroticism",
	"MBTI_Introvert",
	"MBTI_Thinking",
	"DISC_Dominance",
	"DISC_Influence",
	"DISC_Steadiness",
	"Hogan_Ambition",
	"Bias_Overconfidence",
	"Bias_Confirmation",
}

// DefaultCatalog lists the archetypes in classifier output order. Order is
// load-bearing: index i is the model's class i, and lower indexes win exact
// probability ties when ranking.
var DefaultCatalog = []string{
	"Trailblazer",
	"Precision Architect",
	"Fearless Gambler",
	"Strategic Guardian",
	"Diplomatic Orchestrator",
	"Instinctive Maverick",
	"Perfectionist Engineer",
	"Pragmatic Solver",
	"Rebel Thinker",
	"Ethical Compass",
}
