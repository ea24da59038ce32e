package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZFallsBackBeforeInit(t *testing.T) {
	prev := L
	L = nil
	t.Cleanup(func() { L = prev })

	assert.NotNil(t, Z())
	assert.NotPanics(t, func() { Infow("fallback", "k", "v") })
}

func TestNewReleaseWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "test.log"})
	require.NotNil(t, log)

	log.Info("hello")
	_ = log.Sync()

	info, err := os.Stat(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPositiveOr(t *testing.T) {
	assert.Equal(t, 5, positiveOr(5, 9))
	assert.Equal(t, 9, positiveOr(0, 9))
	assert.Equal(t, 9, positiveOr(-1, 9))
}
