package learning

import (
	"context"

	"github.com/google/uuid"
)

// RecentPatternScoreLimit is how many pattern scores RecordPatternScore keeps, the same
// history the chat screen shows.
const RecentPatternScoreLimit = 100

// RecordStudyEvent stamps an event of kind for subject with the current time and
// appends it.
func (s *Store) RecordStudyEvent(ctx context.Context, kind EventKind, subject string, meta map[string]any) (StudyEvent, error) {
	event := StudyEvent{
		Kind:    kind,
		Subject: subject,
		At:      s.now(),
		Meta:    meta,
	}
	if err := event.Validate(); err != nil {
		return StudyEvent{}, err
	}
	return event, s.AddStudyEvent(ctx, event)
}

// RecordPatternScore appends score, filling in its id and time when they are empty, and
// keeps the latest RecentPatternScoreLimit scores.
func (s *Store) RecordPatternScore(ctx context.Context, score PatternScore) (PatternScore, error) {
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	if score.At.IsZero() {
		score.At = s.now()
	}
	if err := score.Validate(); err != nil {
		return PatternScore{}, err
	}
	if s.kv == nil {
		return score, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	scores := keepLast(append(s.PatternScores(ctx), score), RecentPatternScoreLimit)
	return score, s.SetPatternScores(ctx, scores)
}

// RecentExamAttempts returns up to n exam events, newest first.
func (s *Store) RecentExamAttempts(ctx context.Context, n int) []StudyEvent {
	if n <= 0 {
		return nil
	}
	var exams []StudyEvent
	for _, e := range s.StudyEvents(ctx) {
		if e.Kind == EventKindExam {
			exams = append(exams, e)
		}
	}
	exams = keepLast(exams, n)

	attempts := make([]StudyEvent, 0, len(exams))
	for i := len(exams) - 1; i >= 0; i-- {
		attempts = append(attempts, exams[i])
	}
	return attempts
}
