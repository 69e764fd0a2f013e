package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/at-ishikawa/teacherlee/internal/identity"
	"github.com/at-ishikawa/teacherlee/internal/kvstore"
)

const (
	planKey          = "teacherlee:onboarding"
	studyEventsKey   = "teacherlee:study-events"
	vocabCardsKey    = "teacherlee:vocab-cards"
	patternScoresKey = "teacherlee:pattern-scores"
)

// Store reads and writes the learner's state in local storage and syncs it with the
// identity provider.
//
// A Store without local storage behaves like a page rendered on the server: reads
// return nothing and writes do nothing. A Store without an identity client behaves
// like a signed-out user: cloud operations do nothing.
type Store struct {
	kv       kvstore.Store
	identity identity.Client
	logger   *slog.Logger
	now      func() time.Time

	// mu serializes read-modify-write cycles on the local keys
	mu       sync.Mutex
	hydrates singleflight.Group
}

type Option func(*Store)

func WithIdentity(client identity.Client) Option {
	return func(s *Store) {
		s.identity = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store persisting to kv. kv may be nil.
func NewStore(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type readStatus int

const (
	readOK readStatus = iota
	readEmpty
	readUnavailable
)

// readResult distinguishes a stored value from a missing or corrupt one and from
// storage that is not there at all.
type readResult[T any] struct {
	value  T
	status readStatus
}

func (r readResult[T]) orDefault(def T) T {
	if r.status != readOK {
		return def
	}
	return r.value
}

func readJSON[T any](ctx context.Context, s *Store, key string) readResult[T] {
	if s.kv == nil {
		return readResult[T]{status: readUnavailable}
	}
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read local learning data",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return readResult[T]{status: readEmpty}
	}
	if !found || raw == "" {
		return readResult[T]{status: readEmpty}
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Debug("ignoring corrupt local learning data",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return readResult[T]{status: readEmpty}
	}
	return readResult[T]{value: value, status: readOK}
}

// readJSONList reads a JSON array and keeps every element that decodes.
func readJSONList[T any](ctx context.Context, s *Store, key string) []T {
	res := readJSON[[]json.RawMessage](ctx, s, key)
	if res.status != readOK {
		return nil
	}
	items, dropped := decodeEach[T](res.value)
	if dropped > 0 {
		s.logger.Debug("dropping unreadable local learning entries",
			slog.String("key", key),
			slog.Int("dropped", dropped),
		)
	}
	return items
}

func writeJSON(ctx context.Context, s *Store, key string, value any) error {
	if s.kv == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("kv.Set(%s) > %w", key, err)
	}
	return nil
}

// OnboardingPlan returns the stored plan, or nil when none was saved or it is unreadable.
func (s *Store) OnboardingPlan(ctx context.Context) *OnboardingPlan {
	return readJSON[*OnboardingPlan](ctx, s, planKey).orDefault(nil)
}

// SetOnboardingPlan overwrites the stored plan.
func (s *Store) SetOnboardingPlan(ctx context.Context, plan OnboardingPlan) error {
	return writeJSON(ctx, s, planKey, plan)
}

func (s *Store) StudyEvents(ctx context.Context) []StudyEvent {
	return readJSONList[StudyEvent](ctx, s, studyEventsKey)
}

// SetStudyEvents stores events, keeping the last MaxStudyEvents by position.
func (s *Store) SetStudyEvents(ctx context.Context, events []StudyEvent) error {
	return writeJSON(ctx, s, studyEventsKey, nonNil(keepLast(events, MaxStudyEvents)))
}

// AddStudyEvent appends event and keeps the last MaxStudyEvents by position.
func (s *Store) AddStudyEvent(ctx context.Context, event StudyEvent) error {
	if s.kv == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	events := append(s.StudyEvents(ctx), event)
	return s.SetStudyEvents(ctx, events)
}

func (s *Store) VocabCards(ctx context.Context) []VocabCard {
	return readJSONList[VocabCard](ctx, s, vocabCardsKey)
}

// SetVocabCards stores cards, keeping the last MaxVocabCards by position.
func (s *Store) SetVocabCards(ctx context.Context, cards []VocabCard) error {
	return writeJSON(ctx, s, vocabCardsKey, nonNil(keepLast(cards, MaxVocabCards)))
}

func (s *Store) PatternScores(ctx context.Context) []PatternScore {
	return readJSONList[PatternScore](ctx, s, patternScoresKey)
}

// SetPatternScores stores scores, keeping the last MaxPatternScores by position.
func (s *Store) SetPatternScores(ctx context.Context, scores []PatternScore) error {
	return writeJSON(ctx, s, patternScoresKey, nonNil(keepLast(scores, MaxPatternScores)))
}

// LearningState snapshots every local collection. It never writes.
func (s *Store) LearningState(ctx context.Context) LearningState {
	return LearningState{
		Plan:          s.OnboardingPlan(ctx),
		Events:        s.StudyEvents(ctx),
		VocabCards:    s.VocabCards(ctx),
		PatternScores: s.PatternScores(ctx),
		UpdatedAt:     s.now(),
	}
}

// SetLearningState writes every collection of state. A nil plan leaves the stored plan
// as it is.
func (s *Store) SetLearningState(ctx context.Context, state LearningState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeState(ctx, state)
}

func (s *Store) writeState(ctx context.Context, state LearningState) error {
	if state.Plan != nil {
		if err := s.SetOnboardingPlan(ctx, *state.Plan); err != nil {
			return err
		}
	}
	if err := s.SetStudyEvents(ctx, state.Events); err != nil {
		return err
	}
	if err := s.SetVocabCards(ctx, state.VocabCards); err != nil {
		return err
	}
	return s.SetPatternScores(ctx, state.PatternScores)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
