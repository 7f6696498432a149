package activity_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/activity"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestFileLogger_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.txt")
	l := &activity.FileLogger{
		Path:  path,
		Clock: fixedClock(time.Date(2025, 6, 15, 9, 5, 7, 0, time.UTC)),
	}

	l.Log("Contact Ann has been added.")
	l.Log("Contact Ann has been removed!")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"[09:05:07] Contact Ann has been added.\n[09:05:07] Contact Ann has been removed!\n",
		string(data),
	)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileLogger_FailureIsSwallowed(t *testing.T) {
	l := activity.NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "logs.txt"))

	assert.NotPanics(t, func() { l.Log("ignored") })
}

func TestNop(t *testing.T) {
	var l activity.Logger = activity.Nop{}
	assert.NotPanics(t, func() { l.Log("ignored") })
}
