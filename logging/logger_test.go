package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"VERBOSE": logrus.DebugLevel,
		"quiet":   logrus.WarnLevel,
		"debug":   logrus.DebugLevel,
		"error":   logrus.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestInitWithFile(t *testing.T) {
	defer func() {
		Log.SetOutput(os.Stderr)
		Log.SetLevel(logrus.InfoLevel)
	}()

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init("debug", path))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.Info("written to file")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "written to file")
}

func TestSetLevelKeepsOnError(t *testing.T) {
	require.NoError(t, SetLevel("warn"))
	assert.Error(t, SetLevel("nope"))
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	require.NoError(t, SetLevel("info"))
}
