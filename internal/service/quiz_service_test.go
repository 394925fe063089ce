package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"archetype-quiz/internal/bank"
	"archetype-quiz/internal/domain"
	"archetype-quiz/internal/model"
	"archetype-quiz/internal/session"
)

func newTestBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.New([]domain.Question{
		{
			Prompt: "You face a hard deadline. What do you do?",
			Options: map[string]domain.Option{
				"A": {Description: "Improvise", Traits: map[string]float64{"Openness": 5}},
				"B": {Description: "Plan it out", Traits: map[string]float64{"Conscientiousness": 4, "Openness": -1}},
			},
		},
		{
			Prompt: "A teammate disagrees with your approach.",
			Options: map[string]domain.Option{
				"A": {Description: "Hold your ground", Traits: map[string]float64{"Openness": 2}},
			},
		},
	})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	return b
}

func newTestService(t *testing.T, clf model.Classifier) *QuizService {
	t.Helper()
	schema := []string{"Openness", "Conscientiousness"}
	catalog := []string{"X", "Y", "Z"}
	adapter := NewClassifierAdapter(clf, schema, catalog, zap.NewNop())
	store := session.NewMemoryStore(time.Minute)
	return NewQuizService(newTestBank(t), adapter, store, nil, schema, catalog, 3, zap.NewNop())
}

func TestSubmitFreshSession(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.7, 0.2, 0.1}, Features: 2}
	svc := newTestService(t, clf)

	result, err := svc.Submit(context.Background(), "session-1", 0, "A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Scores["Openness"] != 5 {
		t.Fatalf("expected Openness 5, got %v", result.Scores["Openness"])
	}
	if result.Scores["Conscientiousness"] != 0 {
		t.Fatalf("expected Conscientiousness 0, got %v", result.Scores["Conscientiousness"])
	}
	if result.Answered != 1 {
		t.Fatalf("expected answered 1, got %d", result.Answered)
	}

	want := []domain.ArchetypeScore{
		{Archetype: "X", Percent: 70},
		{Archetype: "Y", Percent: 20},
		{Archetype: "Z", Percent: 10},
	}
	if len(result.Top) != 3 {
		t.Fatalf("expected 3 ranked archetypes, got %d", len(result.Top))
	}
	for i, w := range want {
		if result.Top[i] != w {
			t.Fatalf("rank %d: expected %+v, got %+v", i, w, result.Top[i])
		}
	}
}

func TestSubmitAccumulatesAcrossAnswers(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.7, 0.2, 0.1}, Features: 2}
	svc := newTestService(t, clf)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "session-1", 0, "B"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	result, err := svc.Submit(ctx, "session-1", 1, "A")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if result.Scores["Openness"] != 1 {
		t.Fatalf("expected Openness -1+2=1, got %v", result.Scores["Openness"])
	}
	if result.Scores["Conscientiousness"] != 4 {
		t.Fatalf("expected Conscientiousness 4, got %v", result.Scores["Conscientiousness"])
	}
	if result.Answered != 2 {
		t.Fatalf("expected answered 2, got %d", result.Answered)
	}
}

func TestSubmitSessionsAreIndependent(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.7, 0.2, 0.1}, Features: 2}
	svc := newTestService(t, clf)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "session-1", 0, "A"); err != nil {
		t.Fatalf("session-1 submit: %v", err)
	}
	result, err := svc.Submit(ctx, "session-2", 0, "B")
	if err != nil {
		t.Fatalf("session-2 submit: %v", err)
	}

	if result.Scores["Openness"] != -1 {
		t.Fatalf("expected session-2 Openness -1, got %v", result.Scores["Openness"])
	}
}

func TestSubmitInvalidIndex(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.7, 0.2, 0.1}, Features: 2}
	svc := newTestService(t, clf)

	_, err := svc.Submit(context.Background(), "session-1", 99, "A")
	if !errors.Is(err, ErrInvalidQuestionIndex) {
		t.Fatalf("expected ErrInvalidQuestionIndex, got %v", err)
	}
}

func TestSubmitInvalidChoiceLeavesVectorUnchanged(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.7, 0.2, 0.1}, Features: 2}
	svc := newTestService(t, clf)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "session-1", 0, "A"); err != nil {
		t.Fatalf("valid submit: %v", err)
	}

	_, err := svc.Submit(ctx, "session-1", 0, "Q")
	if !errors.Is(err, ErrInvalidOptionKey) {
		t.Fatalf("expected ErrInvalidOptionKey, got %v", err)
	}

	result, err := svc.Result(ctx, "session-1")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if result.Scores["Openness"] != 5 {
		t.Fatalf("expected vector unchanged at Openness 5, got %v", result.Scores["Openness"])
	}
	if result.Answered != 1 {
		t.Fatalf("expected answered still 1, got %d", result.Answered)
	}
}

func TestSubmitWithoutModel(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Submit(context.Background(), "session-1", 0, "A")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}

	// The read path stays usable without a model.
	question, ok := svc.Question(0)
	if !ok {
		t.Fatalf("expected question 0 to resolve")
	}
	if question.Prompt == "" {
		t.Fatalf("expected a prompt")
	}
}

func TestQuestionPastEndOfBank(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.7, 0.2, 0.1}, Features: 2}
	svc := newTestService(t, clf)

	if _, ok := svc.Question(svc.QuestionCount()); ok {
		t.Fatalf("expected miss at index == bank length")
	}
}

func TestResultFreshSessionScoresZeroVector(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.5, 0.3, 0.2}, Features: 2}
	svc := newTestService(t, clf)

	result, err := svc.Result(context.Background(), "never-answered")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Answered != 0 {
		t.Fatalf("expected 0 answers, got %d", result.Answered)
	}
	for trait, score := range result.Scores {
		if score != 0 {
			t.Fatalf("expected zero vector, %s=%v", trait, score)
		}
	}
}

type panickyClassifier struct {
	features int
	classes  int
}

func (p *panickyClassifier) Probabilities(_ []float64) ([]float64, error) {
	panic("corrupted weight matrix")
}

func (p *panickyClassifier) NumFeatures() int { return p.features }

func (p *panickyClassifier) NumClasses() int { return p.classes }

func TestSubmitRecoversClassifierPanic(t *testing.T) {
	svc := newTestService(t, &panickyClassifier{features: 2, classes: 3})

	_, err := svc.Submit(context.Background(), "session-1", 0, "A")
	if err == nil {
		t.Fatalf("expected an error from a panicking classifier")
	}
	// An internal failure, not one of the recoverable input errors.
	if errors.Is(err, ErrInvalidQuestionIndex) || errors.Is(err, ErrInvalidOptionKey) ||
		errors.Is(err, ErrModelUnavailable) || errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected a generic internal error, got %v", err)
	}

	// The service keeps working for later calls.
	if _, ok := svc.Question(0); !ok {
		t.Fatalf("expected question lookup to survive a classifier panic")
	}
}

func TestResultRecoversClassifierPanic(t *testing.T) {
	svc := newTestService(t, &panickyClassifier{features: 2, classes: 3})

	if _, err := svc.Result(context.Background(), "session-1"); err == nil {
		t.Fatalf("expected an error from a panicking classifier")
	}
}

func TestSubmitSameSessionSerializes(t *testing.T) {
	clf := &model.Mock{Probs: []float64{0.7, 0.2, 0.1}, Features: 2}
	svc := newTestService(t, clf)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Submit(ctx, "session-1", 0, "A"); err != nil {
				t.Errorf("submit: %v", err)
			}
		}()
	}
	wg.Wait()

	result, err := svc.Result(ctx, "session-1")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if result.Answered != workers {
		t.Fatalf("expected %d answers, got %d", workers, result.Answered)
	}
	if result.Scores["Openness"] != float64(workers*5) {
		t.Fatalf("expected Openness %d, got %v", workers*5, result.Scores["Openness"])
	}
}

type savedResult struct {
	results []domain.QuizResult
}

func (s *savedResult) Save(_ context.Context, result domain.QuizResult) error {
	s.results = append(s.results, result)
	return nil
}

func (s *savedResult) FindBySessionID(_ context.Context, sessionID string) ([]domain.QuizResult, error) {
	return s.results, nil
}

func TestResultPersistsOutcome(t *testing.T) {
	schema := []string{"Openness", "Conscientiousness"}
	catalog := []string{"X", "Y", "Z"}
	clf := &model.Mock{Probs: []float64{0.2, 0.7, 0.1}, Features: 2}
	adapter := NewClassifierAdapter(clf, schema, catalog, zap.NewNop())
	repo := &savedResult{}
	svc := NewQuizService(newTestBank(t), adapter, session.NewMemoryStore(time.Minute), repo, schema, catalog, 3, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "session-1", 0, "A"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Result(ctx, "session-1"); err != nil {
		t.Fatalf("result: %v", err)
	}

	if len(repo.results) != 1 {
		t.Fatalf("expected one persisted result, got %d", len(repo.results))
	}
	rec := repo.results[0]
	if rec.SessionID != "session-1" {
		t.Fatalf("expected session-1, got %s", rec.SessionID)
	}
	if rec.TopArchetype != "Y" {
		t.Fatalf("expected top archetype Y, got %s", rec.TopArchetype)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp set")
	}
}
