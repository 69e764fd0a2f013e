package learning

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

const (
	MaxStudyEvents   = 400
	MaxVocabCards    = 500
	MaxPatternScores = 300
)

// MergeLearningState reconciles a local and a remote state collection by collection.
// On identity collisions the remote entry wins because it is inserted after the local one.
func MergeLearningState(local, remote LearningState, updatedAt time.Time) LearningState {
	return LearningState{
		Plan:          MergeOnboardingPlan(local.Plan, remote.Plan),
		Events:        MergeStudyEvents(local.Events, remote.Events),
		VocabCards:    MergeVocabCards(local.VocabCards, remote.VocabCards),
		PatternScores: MergePatternScores(local.PatternScores, remote.PatternScores),
		UpdatedAt:     updatedAt,
	}
}

// MergeOnboardingPlan picks the local plan when there is one. Plans are never merged
// field by field.
func MergeOnboardingPlan(local, remote *OnboardingPlan) *OnboardingPlan {
	if local != nil {
		return local
	}
	return remote
}

// MergeStudyEvents unions both logs, drops duplicates, orders them by time and keeps the
// newest MaxStudyEvents.
func MergeStudyEvents(local, remote []StudyEvent) []StudyEvent {
	merged := dedupe(concat(local, remote), StudyEvent.identityKey)
	slices.SortStableFunc(merged, func(a, b StudyEvent) int {
		return a.At.Compare(b.At)
	})
	return keepLast(merged, MaxStudyEvents)
}

// MergeVocabCards unions both sets by id and keeps the trailing MaxVocabCards by position.
// The result is not re-sorted by time.
func MergeVocabCards(local, remote []VocabCard) []VocabCard {
	merged := dedupe(concat(local, remote), func(c VocabCard) string { return c.ID })
	return keepLast(merged, MaxVocabCards)
}

// MergePatternScores unions both sets by id and keeps the trailing MaxPatternScores by
// position.
func MergePatternScores(local, remote []PatternScore) []PatternScore {
	merged := dedupe(concat(local, remote), func(s PatternScore) string { return s.ID })
	return keepLast(merged, MaxPatternScores)
}

// identityKey is (kind, subject, at, meta as JSON). A missing meta and an empty one share
// the same key.
func (e StudyEvent) identityKey() string {
	meta := ""
	if len(e.Meta) > 0 {
		// map keys are sorted by encoding/json, so equal maps always encode the same way
		b, err := json.Marshal(e.Meta)
		if err != nil {
			meta = fmt.Sprintf("%v", e.Meta)
		} else {
			meta = string(b)
		}
	}
	return fmt.Sprintf("%s|%s|%s|%s", e.Kind, e.Subject, e.At.UTC().Format(time.RFC3339Nano), meta)
}

func concat[T any](local, remote []T) []T {
	all := make([]T, 0, len(local)+len(remote))
	all = append(all, local...)
	return append(all, remote...)
}

// dedupe keeps the position of the first occurrence of each key and the value of the
// last one.
func dedupe[T any](items []T, key func(T) string) []T {
	positions := make(map[string]int, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if i, ok := positions[k]; ok {
			result[i] = item
			continue
		}
		positions[k] = len(result)
		result = append(result, item)
	}
	return result
}

func keepLast[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
