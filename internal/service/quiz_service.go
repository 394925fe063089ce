package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"archetype-quiz/internal/bank"
	"archetype-quiz/internal/domain"
	"archetype-quiz/internal/repository"
	"archetype-quiz/internal/session"
)

var (
	ErrInvalidQuestionIndex = errors.New("question index out of range")
	ErrInvalidOptionKey     = errors.New("option key not offered for question")
)

// QuizService orchestrates one scoring step per submitted answer: validate
// the answer against the bank, fold its deltas into the session vector,
// classify the vector and rank the distribution.
type QuizService struct {
	bank     *bank.Bank
	adapter  *ClassifierAdapter
	sessions session.Store
	results  repository.ResultRepository
	schema   []string
	catalog  []string
	topK     int
	logger   *zap.Logger

	// Fixed-size stripe set: session ids hash onto a mutex, so the lock
	// footprint stays constant no matter how many sessions are created.
	locks [sessionLockStripes]sync.Mutex
}

const sessionLockStripes = 64

// NewQuizService wires the engine. results may be nil, in which case finished
// quizzes are not persisted.
func NewQuizService(
	b *bank.Bank,
	adapter *ClassifierAdapter,
	sessions session.Store,
	results repository.ResultRepository,
	schema, catalog []string,
	topK int,
	logger *zap.Logger,
) *QuizService {
	if topK <= 0 {
		topK = 3
	}
	return &QuizService{
		bank:     b,
		adapter:  adapter,
		sessions: sessions,
		results:  results,
		schema:   schema,
		catalog:  catalog,
		topK:     topK,
		logger:   logger,
	}
}

// Question returns the question at index, or ok=false past the end of the
// bank. Callers turn the miss into their own quiz-complete signal.
func (s *QuizService) Question(index int) (domain.Question, bool) {
	return s.bank.Get(index)
}

// QuestionCount returns the bank size.
func (s *QuizService) QuestionCount() int {
	return s.bank.Len()
}

// ModelAvailable reports whether a classifier artifact was loaded.
func (s *QuizService) ModelAvailable() bool {
	return s.adapter.Available()
}

// Submit processes one answer for a session and returns the refreshed top-K
// ranking plus the cumulative trait snapshot. Validation failures leave the
// stored vector untouched. Submits for the same session serialize on a
// per-session lock; different sessions never contend.
func (s *QuizService) Submit(ctx context.Context, sessionID string, questionIndex int, optionKey string) (domain.RankedResult, error) {
	question, ok := s.bank.Get(questionIndex)
	if !ok {
		return domain.RankedResult{}, fmt.Errorf("%w: %d", ErrInvalidQuestionIndex, questionIndex)
	}
	option, ok := question.Options[optionKey]
	if !ok {
		return domain.RankedResult{}, fmt.Errorf("%w: %q for question %d", ErrInvalidOptionKey, optionKey, questionIndex)
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.RankedResult{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if state == nil {
		state = &domain.QuizState{Scores: domain.NewTraitVector(s.schema)}
	}

	state.Scores = ApplyOption(state.Scores, option)
	state.Answered++

	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return domain.RankedResult{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}

	probs, err := s.classify(state.Scores)
	if err != nil {
		return domain.RankedResult{}, err
	}

	return domain.RankedResult{
		Top:      Rank(s.catalog, probs, s.topK),
		Scores:   state.Scores.Clone(),
		Answered: state.Answered,
	}, nil
}

// Result classifies the current session vector without mutating it and, when
// a result repository is configured, records the outcome. A session with no
// answers yet scores the all-zero vector.
func (s *QuizService) Result(ctx context.Context, sessionID string) (domain.RankedResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.RankedResult{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if state == nil {
		state = &domain.QuizState{Scores: domain.NewTraitVector(s.schema)}
	}

	probs, err := s.classify(state.Scores)
	if err != nil {
		return domain.RankedResult{}, err
	}

	result := domain.RankedResult{
		Top:      Rank(s.catalog, probs, s.topK),
		Scores:   state.Scores.Clone(),
		Answered: state.Answered,
	}

	if s.results != nil && len(result.Top) > 0 {
		record := domain.QuizResult{
			ID:           uuid.NewString(),
			SessionID:    sessionID,
			TopArchetype: result.Top[0].Archetype,
			Scores:       result.Scores,
			Answered:     result.Answered,
			CreatedAt:    time.Now().UTC(),
		}
		// Best effort: a persistence failure must not hide the ranking.
		if err := s.results.Save(ctx, record); err != nil {
			s.logger.Warn("persist quiz result failed", zap.Error(err), zap.String("session_id", sessionID))
		}
	}

	return result, nil
}

// classify wraps the adapter call with a recover so an unexpected model
// failure surfaces as a diagnosable error instead of killing the request.
func (s *QuizService) classify(vec domain.TraitVector) (probs []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("classifier panicked", zap.Any("panic", r))
			err = fmt.Errorf("classifier failure: %v", r)
		}
	}()
	return s.adapter.Classify(vec)
}

func (s *QuizService) lockSession(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}
