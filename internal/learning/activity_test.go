package learning

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordStudyEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    EventKind
		subject string
		meta    map[string]any
		wantErr string
	}{
		{name: "chat", kind: EventKindChat, subject: "korean"},
		{name: "exam with meta", kind: EventKindExam, subject: "korean", meta: map[string]any{"examId": "topik-1", "examName": "TOPIK I"}},
		{name: "unknown kind", kind: EventKind("quiz"), subject: "korean", wantErr: "StudyEvent.Kind"},
		{name: "missing subject", kind: EventKindCode, subject: "", wantErr: "StudyEvent.Subject"},
		{name: "nested meta", kind: EventKindCode, subject: "js", meta: map[string]any{"files": []string{"a.js"}}, wantErr: `meta "files"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)

			got, err := store.RecordStudyEvent(ctx, tt.kind, tt.subject, tt.meta)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, store.StudyEvents(ctx))
				return
			}
			require.NoError(t, err)

			want := StudyEvent{Kind: tt.kind, Subject: tt.subject, At: baseTime, Meta: tt.meta}
			assert.Equal(t, want, got)
			assert.Equal(t, []StudyEvent{want}, store.StudyEvents(ctx))
		})
	}
}

func TestStore_RecordPatternScore(t *testing.T) {
	ctx := context.Background()

	t.Run("fills in id and time", func(t *testing.T) {
		store, _ := newTestStore(t)
		got, err := store.RecordPatternScore(ctx, PatternScore{Pattern: "요청/부탁하기", Text: "도와주세요", Score: 75})
		require.NoError(t, err)

		assert.NotEmpty(t, got.ID)
		assert.Equal(t, baseTime, got.At)
		assert.Equal(t, []PatternScore{got}, store.PatternScores(ctx))
	})

	t.Run("keeps given id and time", func(t *testing.T) {
		store, _ := newTestStore(t)
		at := baseTime.Add(-time.Hour)
		got, err := store.RecordPatternScore(ctx, PatternScore{ID: "p1", Pattern: "거절하기", Score: 50, At: at})
		require.NoError(t, err)

		assert.Equal(t, "p1", got.ID)
		assert.Equal(t, at, got.At)
	})

	t.Run("out of range score", func(t *testing.T) {
		store, _ := newTestStore(t)
		_, err := store.RecordPatternScore(ctx, PatternScore{Pattern: "거절하기", Score: 101})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PatternScore.Score")

		_, err = store.RecordPatternScore(ctx, PatternScore{Pattern: "거절하기", Score: 90, Rubric: &PatternRubric{Grammar: -1}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Rubric.Grammar")
		assert.Empty(t, store.PatternScores(ctx))
	})

	t.Run("keeps the recent scores", func(t *testing.T) {
		store, _ := newTestStore(t)
		for i := 0; i < RecentPatternScoreLimit+5; i++ {
			_, err := store.RecordPatternScore(ctx, PatternScore{ID: fmt.Sprintf("p%03d", i), Pattern: "거절하기", Score: i % 100})
			require.NoError(t, err)
		}

		scores := store.PatternScores(ctx)
		require.Len(t, scores, RecentPatternScoreLimit)
		assert.Equal(t, "p005", scores[0].ID)
		assert.Equal(t, "p104", scores[len(scores)-1].ID)
	})
}

func TestStore_RecentExamAttempts(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	exam := func(id string, at time.Time) StudyEvent {
		return StudyEvent{Kind: EventKindExam, Subject: "korean", At: at, Meta: map[string]any{"examId": id, "examName": "TOPIK " + id}}
	}
	require.NoError(t, store.SetStudyEvents(ctx, []StudyEvent{
		exam("1", baseTime),
		{Kind: EventKindChat, Subject: "korean", At: baseTime.Add(time.Minute)},
		exam("2", baseTime.Add(2*time.Minute)),
		exam("3", baseTime.Add(3*time.Minute)),
		{Kind: EventKindCode, Subject: "js", At: baseTime.Add(4 * time.Minute)},
		exam("4", baseTime.Add(5*time.Minute)),
	}))

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "last three, newest first", n: 3, want: []string{"4", "3", "2"}},
		{name: "more than available", n: 10, want: []string{"4", "3", "2", "1"}},
		{name: "zero", n: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range store.RecentExamAttempts(ctx, tt.n) {
				got = append(got, e.Meta["examId"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
