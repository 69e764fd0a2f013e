package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/teacherlee/internal/learning"
)

func date(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2025, month, day, hour, minute, 0, 0, time.UTC)
}

func TestCalculateWeeklyReport(t *testing.T) {
	now := date(time.March, 8, 15, 0)
	state := learning.LearningState{
		Events: []learning.StudyEvent{
			{Kind: learning.EventKindChat, Subject: "korean", At: date(time.March, 1, 14, 59)},
			{Kind: learning.EventKindChat, Subject: "korean", At: date(time.March, 1, 15, 0)},
			{Kind: learning.EventKindExam, Subject: "korean", At: date(time.March, 5, 12, 0), Meta: map[string]any{"examId": "topik-1"}},
			{Kind: learning.EventKindCode, Subject: "js", At: date(time.March, 7, 9, 0)},
			{Kind: learning.EventKindChat, Subject: "korean", At: date(time.March, 8, 10, 0)},
			{Kind: learning.EventKindChat, Subject: "english", At: date(time.March, 8, 11, 0)},
		},
		VocabCards: []learning.VocabCard{
			{ID: "old", Word: "책", Subject: "korean", AddedAt: date(time.February, 20, 0, 0)},
			{ID: "en", Word: "apple", Subject: "english", AddedAt: date(time.March, 2, 8, 0)},
			{ID: "ko1", Word: "사과", Subject: "korean", AddedAt: date(time.March, 7, 8, 0)},
			{ID: "ko2", Word: "물", Subject: "korean", AddedAt: date(time.March, 7, 9, 0)},
		},
		PatternScores: []learning.PatternScore{
			{ID: "p1", Pattern: "자기소개하기", Score: 10, At: date(time.February, 28, 0, 0)},
			{ID: "p2", Pattern: "요청/부탁하기", Score: 80, At: date(time.March, 7, 10, 0)},
			{ID: "p3", Pattern: "거절하기", Score: 71, At: date(time.March, 8, 9, 0)},
			{ID: "p4", Pattern: "자기소개하기", Score: 90, At: date(time.March, 8, 12, 0)},
		},
	}

	got := CalculateWeeklyReport(state, now)

	assert.Equal(t, now, got.GeneratedAt)
	assert.Equal(t, date(time.March, 1, 15, 0), got.WeekStart)

	assert.Equal(t, 5, got.EventCount)
	assert.Equal(t, 3, got.ChatCount)
	assert.Equal(t, 1, got.CodeCount)
	assert.Equal(t, 1, got.ExamCount)
	assert.Equal(t, 40, got.StudyMinutes())
	assert.InDelta(t, 0.667, got.StudyHours(), 0.001)

	assert.Equal(t, 3, got.NewWords)
	assert.Equal(t, map[string]int{"korean": 2, "english": 1}, got.NewWordsBySubject)

	assert.Equal(t, 3, got.PatternCount)
	assert.Equal(t, 80, got.AveragePatternScore)

	require.Len(t, got.Days, 7)
	assert.Equal(t, date(time.March, 2, 0, 0), got.Days[0].Date)
	assert.Equal(t, date(time.March, 8, 0, 0), got.Days[6].Date)
	assert.Equal(t, []DailyActivity{
		{Date: date(time.March, 2, 0, 0)},
		{Date: date(time.March, 3, 0, 0)},
		{Date: date(time.March, 4, 0, 0)},
		{Date: date(time.March, 5, 0, 0), Minutes: 8},
		{Date: date(time.March, 6, 0, 0)},
		{Date: date(time.March, 7, 0, 0), Minutes: 8, PatternCount: 1, PatternAverage: 80},
		{Date: date(time.March, 8, 0, 0), Minutes: 16, Conversations: 2, PatternCount: 2, PatternAverage: 81},
	}, got.Days)

	require.Len(t, got.Goals, 4)
	assert.Equal(t, "korean", got.Goals[0].Subject.ID)
	assert.Equal(t, 2, got.Goals[0].VocabDone)
	assert.Equal(t, 3, got.Goals[0].PatternDone)
	assert.Equal(t, 1, got.Goals[1].VocabDone)
	assert.Len(t, got.LowProgressSubjects, 4)

	var recentIDs []string
	for _, p := range got.RecentPatterns {
		recentIDs = append(recentIDs, p.ID)
	}
	assert.Equal(t, []string{"p4", "p3", "p2", "p1"}, recentIDs)
}

func TestCalculateWeeklyReport_Empty(t *testing.T) {
	got := CalculateWeeklyReport(learning.LearningState{}, date(time.March, 8, 15, 0))

	assert.Zero(t, got.EventCount)
	assert.Zero(t, got.AveragePatternScore)
	assert.Empty(t, got.NewWordsBySubject)
	assert.Len(t, got.Days, 7)
	for _, d := range got.Days {
		assert.Zero(t, d.Minutes)
		assert.Zero(t, d.PatternAverage)
	}
	assert.Len(t, got.LowProgressSubjects, len(DefaultGoalSubjects))
	assert.Empty(t, got.RecentPatterns)
}

func TestCalculateWeeklyReport_LocalDays(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	now := time.Date(2025, time.March, 8, 1, 0, 0, 0, kst)
	state := learning.LearningState{
		Events: []learning.StudyEvent{
			// the same UTC day, different local days
			{Kind: learning.EventKindChat, Subject: "korean", At: time.Date(2025, time.March, 7, 23, 30, 0, 0, kst)},
			{Kind: learning.EventKindChat, Subject: "korean", At: time.Date(2025, time.March, 7, 15, 10, 0, 0, time.UTC)},
		},
	}

	got := CalculateWeeklyReport(state, now)

	require.Len(t, got.Days, 7)
	assert.Equal(t, time.Date(2025, time.March, 8, 0, 0, 0, 0, kst), got.Days[6].Date)
	assert.Equal(t, 1, got.Days[5].Conversations)
	assert.Equal(t, 1, got.Days[6].Conversations)
}

func TestRecentPatterns(t *testing.T) {
	var scores []learning.PatternScore
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		scores = append(scores, learning.PatternScore{ID: id})
	}

	var got []string
	for _, p := range recentPatterns(scores, RecentPatternsCount) {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, got)
}

func TestSubjectGoal(t *testing.T) {
	tests := []struct {
		name            string
		goal            SubjectGoal
		wantVocab       int
		wantPattern     int
		wantLowProgress bool
	}{
		{
			name:            "both at the threshold",
			goal:            SubjectGoal{VocabTarget: 100, VocabDone: 70, PatternTarget: 40, PatternDone: 28},
			wantVocab:       70,
			wantPattern:     70,
			wantLowProgress: false,
		},
		{
			name:            "vocabulary just below",
			goal:            SubjectGoal{VocabTarget: 100, VocabDone: 69, PatternTarget: 40, PatternDone: 40},
			wantVocab:       69,
			wantPattern:     100,
			wantLowProgress: true,
		},
		{
			name:            "patterns just below",
			goal:            SubjectGoal{VocabTarget: 100, VocabDone: 100, PatternTarget: 40, PatternDone: 27},
			wantVocab:       100,
			wantPattern:     68,
			wantLowProgress: true,
		},
		{
			name:            "over the goal is capped",
			goal:            SubjectGoal{VocabTarget: 100, VocabDone: 150, PatternTarget: 40, PatternDone: 60},
			wantVocab:       100,
			wantPattern:     100,
			wantLowProgress: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantVocab, tt.goal.VocabPercent())
			assert.Equal(t, tt.wantPattern, tt.goal.PatternPercent())
			assert.Equal(t, tt.wantLowProgress, tt.goal.LowProgress())
		})
	}
}
