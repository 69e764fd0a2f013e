package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"

	"github.com/at-ishikawa/teacherlee/internal/identity"
)

// CloudMetadataKey is the user metadata field holding the synchronized LearningState.
const CloudMetadataKey = "learning_state"

// SyncToCloud overwrites the user's learning_state with the local snapshot, leaving the
// rest of the metadata as it is. The remote value is replaced, not merged; call
// HydrateFromCloud to merge first.
//
// Without local storage, an identity client or a signed-in user it does nothing.
func (s *Store) SyncToCloud(ctx context.Context) error {
	if s.kv == nil || s.identity == nil {
		return nil
	}
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("identity.CurrentUser() > %w", err)
	}
	if user == nil {
		return nil
	}
	return s.push(ctx, user, s.LearningState(ctx))
}

// HydrateFromCloud merges the user's learning_state into local storage and pushes the
// merged state back so both copies converge.
//
// Concurrent calls on the same Store share a single run. The shared run keeps the first
// caller's context values but not its cancellation, so one caller giving up does not fail
// the others. Without local storage, an identity client, a signed-in user or a
// learning_state field it does nothing.
func (s *Store) HydrateFromCloud(ctx context.Context) error {
	_, err, _ := s.hydrates.Do("hydrate", func() (any, error) {
		return nil, s.hydrate(context.WithoutCancel(ctx))
	})
	return err
}

func (s *Store) hydrate(ctx context.Context) error {
	if s.kv == nil || s.identity == nil {
		return nil
	}
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("identity.CurrentUser() > %w", err)
	}
	if user == nil {
		return nil
	}
	remote, ok := s.cloudState(user)
	if !ok {
		return nil
	}

	merged, err := s.mergeLocal(ctx, remote)
	if err != nil {
		return err
	}
	s.logger.Debug("hydrated learning state from cloud",
		slog.Int("events", len(merged.Events)),
		slog.Int("vocabCards", len(merged.VocabCards)),
		slog.Int("patternScores", len(merged.PatternScores)),
	)
	return s.push(ctx, user, merged)
}

func (s *Store) mergeLocal(ctx context.Context, remote LearningState) (LearningState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := LearningState{
		Plan:          s.OnboardingPlan(ctx),
		Events:        s.StudyEvents(ctx),
		VocabCards:    s.VocabCards(ctx),
		PatternScores: s.PatternScores(ctx),
	}
	merged := MergeLearningState(local, remote, s.now())
	if err := s.writeState(ctx, merged); err != nil {
		return LearningState{}, fmt.Errorf("writeState() > %w", err)
	}
	return merged, nil
}

func (s *Store) push(ctx context.Context, user *identity.User, state LearningState) error {
	metadata := make(map[string]any, len(user.UserMetadata)+1)
	maps.Copy(metadata, user.UserMetadata)
	metadata[CloudMetadataKey] = state

	if _, err := s.identity.UpdateUserMetadata(ctx, metadata); err != nil {
		return fmt.Errorf("identity.UpdateUserMetadata() > %w", err)
	}
	return nil
}

// cloudState decodes learning_state, which is stored as an object but may also be a JSON
// string. An unreadable value is treated as missing.
func (s *Store) cloudState(user *identity.User) (LearningState, bool) {
	raw, ok := user.UserMetadata[CloudMetadataKey]
	if !ok || raw == nil {
		return LearningState{}, false
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case LearningState:
		return v, true
	default:
		b, err := json.Marshal(v)
		if err != nil {
			s.logger.Warn("failed to encode cloud learning state", slog.Any("error", err))
			return LearningState{}, false
		}
		data = b
	}

	var state LearningState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("ignoring unreadable cloud learning state", slog.Any("error", err))
		return LearningState{}, false
	}
	return state, true
}
