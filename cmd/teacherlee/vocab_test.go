package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/teacherlee/internal/learning"
	"github.com/at-ishikawa/teacherlee/internal/testutil"
)

func TestNewVocabCommand(t *testing.T) {
	cmd := newVocabCommand()

	assert.Equal(t, "vocab", cmd.Use)
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"add", "master", "wrong", "list", "due", "review"}, names)

	dueCmd := newVocabDueCommand()
	limitFlag := dueCmd.Flags().Lookup("limit")
	assert.NotNil(t, limitFlag)
	assert.Equal(t, "8", limitFlag.DefValue)
}

func TestVocabAdd(t *testing.T) {
	tmpDir, cfgPath := setupTestConfigFile(t)

	got, err := executeCommand(t, context.Background(), cfgPath, "vocab", "add", "--subject", "korean", "  사과 ")
	require.NoError(t, err)
	assert.Contains(t, got, "Added 사과 (")

	got, err = executeCommand(t, context.Background(), cfgPath, "vocab", "add", "--subject", "korean", "사과")
	require.NoError(t, err)
	assert.Equal(t, "사과 is already in your korean vocabulary\n", got)

	_, err = executeCommand(t, context.Background(), cfgPath, "vocab", "add", "--subject", "korean", " ")
	assert.ErrorIs(t, err, learning.ErrEmptyWord)

	_, err = executeCommand(t, context.Background(), cfgPath, "vocab", "add", "사과")
	assert.EqualError(t, err, "--subject is required")

	cards := testutil.LearningStore(t, tmpDir).VocabCards(context.Background())
	require.Len(t, cards, 1)
	assert.Equal(t, "사과", cards[0].Word)
	assert.Equal(t, 1, cards[0].ReviewIntervalDays)
}

func TestVocabMasterAndWrong(t *testing.T) {
	tmpDir, cfgPath := setupTestConfigFile(t)
	testutil.SeedLearningState(t, tmpDir, learning.LearningState{
		VocabCards: []learning.VocabCard{
			{ID: "c1", Word: "사과", Subject: "korean", ReviewIntervalDays: 4},
		},
	})

	got, err := executeCommand(t, context.Background(), cfgPath, "vocab", "master", "c1")
	require.NoError(t, err)
	assert.Contains(t, got, "c1  사과 [korean] mastered, missed 0")

	got, err = executeCommand(t, context.Background(), cfgPath, "vocab", "wrong", "c1")
	require.NoError(t, err)
	assert.Contains(t, got, "c1  사과 [korean] learning, missed 1")

	card := testutil.LearningStore(t, tmpDir).VocabCards(context.Background())[0]
	assert.False(t, card.Mastered)
	assert.Equal(t, 1, card.WrongCount)
	assert.Equal(t, 1, card.ReviewIntervalDays)

	_, err = executeCommand(t, context.Background(), cfgPath, "vocab", "master", "missing")
	assert.ErrorIs(t, err, learning.ErrCardNotFound)
}

func TestVocabListAndDue(t *testing.T) {
	tmpDir, cfgPath := setupTestConfigFile(t)
	now := time.Now()
	testutil.SeedLearningState(t, tmpDir, learning.LearningState{
		VocabCards: []learning.VocabCard{
			{ID: "c1", Word: "사과", Subject: "korean", NextReviewAt: now.Add(-time.Hour)},
			{ID: "c2", Word: "학교", Subject: "korean", WrongCount: 3, NextReviewAt: now.Add(-time.Minute)},
			{ID: "c3", Word: "나무", Subject: "korean", Mastered: true, NextReviewAt: now.Add(72 * time.Hour)},
			{ID: "c4", Word: "apple", Subject: "english", NextReviewAt: now.Add(-time.Hour)},
		},
	})

	tests := []struct {
		name    string
		args    []string
		wantIDs []string
		want    string
		wantErr string
	}{
		{name: "list all", args: []string{"list"}, wantIDs: []string{"c1", "c2", "c3", "c4"}},
		{name: "list one subject", args: []string{"list", "--subject", "english"}, wantIDs: []string{"c4"}},
		{name: "list unknown subject", args: []string{"list", "--subject", "go"}, want: "No vocabulary cards yet.\n"},
		{name: "due most missed first", args: []string{"due", "--subject", "korean"}, wantIDs: []string{"c2", "c1"}},
		{name: "due with limit", args: []string{"due", "--subject", "korean", "--limit", "1"}, wantIDs: []string{"c2"}},
		{name: "nothing due", args: []string{"due", "--subject", "go"}, want: "Nothing to review right now.\n"},
		{name: "due without subject", args: []string{"due"}, wantErr: "--subject is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := executeCommand(t, context.Background(), cfgPath, append([]string{"vocab"}, tt.args...)...)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
				return
			}

			lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
			var ids []string
			for _, line := range lines {
				ids = append(ids, strings.Fields(line)[0])
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestVocabReview(t *testing.T) {
	tmpDir, cfgPath := setupTestConfigFile(t)
	testutil.SeedLearningState(t, tmpDir, learning.LearningState{
		VocabCards: []learning.VocabCard{
			{ID: "c1", Word: "사과", Subject: "korean", ReviewIntervalDays: 1, NextReviewAt: time.Now().Add(-time.Hour)},
		},
	})

	oldConfigFile := configFile
	defer func() { configFile = oldConfigFile }()
	for _, env := range []string{"SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_ACCESS_TOKEN"} {
		t.Setenv(env, "")
	}

	var stdout strings.Builder
	cmd := newRootCommand()
	cmd.SetIn(strings.NewReader("y\n"))
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--config", cfgPath, "vocab", "review", "--subject", "korean"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "Do you remember 사과? [y/n/q]: ")
	assert.Contains(t, stdout.String(), "Reviewed 1 card(s), remembered 1.\n")

	card := testutil.LearningStore(t, tmpDir).VocabCards(context.Background())[0]
	assert.True(t, card.Mastered)
	assert.Equal(t, 2, card.ReviewIntervalDays)
}
