package domain

import "time"

// ArchetypeScore is one ranked archetype with its probability as a percentage
// rounded for display.
type ArchetypeScore struct {
	Archetype string  `json:"archetype"`
	Percent   float64 `json:"percent"`
}

// RankedResult is the output of one scoring step: the top-K archetypes in
// descending probability order plus a snapshot of the cumulative trait scores.
type RankedResult struct {
	Top      []ArchetypeScore `json:"top_archetypes"`
	Scores   TraitVector      `json:"updated_scores"`
	Answered int              `json:"answered"`
}

// QuizResult is a persisted record of a finished quiz.
type QuizResult struct {
	ID           string      `json:"id"`
	SessionID    string      `json:"session_id"`
	TopArchetype string      `json:"top_archetype"`
	Scores       TraitVector `json:"scores"`
	Answered     int         `json:"answered"`
	CreatedAt    time.Time   `json:"created_at"`
}
