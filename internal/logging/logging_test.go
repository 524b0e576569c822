package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/stargazer/internal/logtail"
)

func TestNew_WritesTextToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stargazer.log")

	logger, closeFn, err := New(Options{File: path})
	require.NoError(t, err)
	logger.WithField("date", "2020-07-04").Info("fetch completed")
	logger.Debug("hidden at info level")
	require.NoError(t, closeFn())

	lines, err := logtail.Read(path, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", logtail.Level(lines[0]))
	assert.Contains(t, lines[0], "date=2020-07-04")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Verbose: true, Fallback: &buf})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "level=debug")
}

func TestNew_UnwritableDirFails(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, _, err := New(Options{File: filepath.Join(blocker, "sub", "log")})
	assert.Error(t, err)
}
