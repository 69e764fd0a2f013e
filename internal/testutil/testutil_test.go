package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/teacherlee/internal/config"
	"github.com/at-ishikawa/teacherlee/internal/learning"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	// Verify the config loads and points into tmpDir.
	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(tmpDir, "learning"), cfg.Storage.Directory)
	assert.Equal(t, filepath.Join(tmpDir, "reports"), cfg.Report.OutputDirectory)

	for _, d := range []string{"learning", "reports"} {
		info, err := os.Stat(filepath.Join(tmpDir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestSetupTestConfigWithSupabase(t *testing.T) {
	for _, env := range []string{"SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_ACCESS_TOKEN"} {
		t.Setenv(env, "")
	}
	tmpDir := t.TempDir()
	got := SetupTestConfigWithSupabase(t, tmpDir, "http://127.0.0.1:9999", "token")

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Supabase.Enabled())
	assert.Equal(t, "http://127.0.0.1:9999", cfg.Supabase.URL)
	assert.Equal(t, "token", cfg.Supabase.AccessToken)
	assert.Equal(t, 5, cfg.Supabase.TimeoutSeconds)
}

func TestSeedLearningState(t *testing.T) {
	tmpDir := t.TempDir()
	SetupTestConfig(t, tmpDir)
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	SeedLearningState(t, tmpDir, learning.LearningState{
		Events: []learning.StudyEvent{{Kind: learning.EventKindChat, Subject: "korean", At: at}},
	})

	events := LearningStore(t, tmpDir).StudyEvents(context.Background())
	assert.Equal(t, []learning.StudyEvent{{Kind: learning.EventKindChat, Subject: "korean", At: at}}, events)
}
