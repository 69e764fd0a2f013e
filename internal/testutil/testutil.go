// Package testutil provides shared test helpers for creating config files and learning state fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/teacherlee/internal/kvstore"
	"github.com/at-ishikawa/teacherlee/internal/learning"
)

// SetupTestConfig creates a config file keeping the learning state in files under
// tmpDir and creates the directories it points to.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"learning", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`storage:
  driver: file
  directory: %s
report:
  output_directory: %s
`,
		filepath.Join(tmpDir, "learning"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithSupabase creates a config file that signs in to the Supabase
// project at url with accessToken.
func SetupTestConfigWithSupabase(t *testing.T, tmpDir, url, accessToken string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("supabase:\n  url: %s\n  anon_key: fake-anon-key\n  access_token: %s\n  timeout_seconds: 5\n", url, accessToken))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// LearningStore opens the learning store the config from SetupTestConfig points to.
func LearningStore(t *testing.T, tmpDir string, opts ...learning.Option) *learning.Store {
	t.Helper()
	return learning.NewStore(kvstore.NewFile(filepath.Join(tmpDir, "learning")), opts...)
}

// SeedLearningState writes state into the store the config from SetupTestConfig points to.
func SeedLearningState(t *testing.T, tmpDir string, state learning.LearningState) {
	t.Helper()
	require.NoError(t, LearningStore(t, tmpDir).SetLearningState(context.Background(), state))
}
