package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()

	logsDir := filepath.Join(tempDir, "logs", "scoring")
	require.NoError(t, EnsureDir(logsDir))
	stat, err := os.Stat(logsDir)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())

	// second call is a no-op
	require.NoError(t, EnsureDir(logsDir))

	tempFile := filepath.Join(tempDir, "sprintflow.log")
	require.NoError(t, os.WriteFile(tempFile, []byte("x"), 0o600))
	err = EnsureDir(tempFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
