package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, now time.Time) *Logger {
	t.Helper()
	l, err := NewLogger(filepath.Join(t.TempDir(), "journal"))
	require.NoError(t, err)
	l.now = func() time.Time { return now }
	return l
}

func TestLog_WritesJSONLines(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	l := newTestLogger(t, now)

	require.NoError(t, l.Log("update", "ok", map[string]interface{}{"id": 3}, nil))
	require.NoError(t, l.Log("delete", "error", nil, errors.New("No job: 9")))

	data, err := os.ReadFile(filepath.Join(l.journalDir, "2026-03-02.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action":"update"`)

	entries, err := l.Last(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "update", entries[0].Action)
	assert.Equal(t, float64(3), entries[0].Details["id"])
	_, err = uuid.Parse(entries[0].ID)
	assert.NoError(t, err)

	assert.Equal(t, "error", entries[1].Status)
	assert.Equal(t, "No job: 9", entries[1].Error)
}

func TestLast_SpansDays(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	l := newTestLogger(t, day1)

	require.NoError(t, l.Log("create", "ok", nil, nil))
	require.NoError(t, l.Log("update", "ok", nil, nil))

	l.now = func() time.Time { return day1.Add(2 * time.Hour) }
	require.NoError(t, l.Log("delete", "ok", nil, nil))

	entries, err := l.Last(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "update", entries[0].Action)
	assert.Equal(t, "delete", entries[1].Action)

	entries, err = l.Last(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLast_EmptyJournal(t *testing.T) {
	l := newTestLogger(t, time.Now())

	entries, err := l.Last(5)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestErrors_TodayOnly(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := newTestLogger(t, now.Add(-24*time.Hour))
	require.NoError(t, l.Log("update", "error", nil, errors.New("old")))

	l.now = func() time.Time { return now }
	require.NoError(t, l.Log("create", "ok", nil, nil))
	require.NoError(t, l.Log("create", "error", nil, errors.New("new")))

	errs, err := l.Errors()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "new", errs[0].Error)
}

func TestIndex(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := newTestLogger(t, now)

	require.NoError(t, l.Log("create", "ok", nil, nil))
	require.NoError(t, l.Log("create", "ok", nil, nil))
	require.NoError(t, l.Log("update", "error", nil, errors.New("x")))

	index, err := l.Index()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", index.Date)
	assert.Equal(t, 3, index.Entries)
	assert.Equal(t, 1, index.Errors)
	assert.Equal(t, map[string]int{"create": 2, "update": 1}, index.ByAction)

	// a new day resets the counters
	l.now = func() time.Time { return now.Add(24 * time.Hour) }
	require.NoError(t, l.Log("delete", "ok", nil, nil))

	index, err = l.Index()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", index.Date)
	assert.Equal(t, 1, index.Entries)
}

func TestIndex_StaleDay(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := newTestLogger(t, now)

	require.NoError(t, l.Log("create", "ok", nil, nil))
	require.NoError(t, l.Log("update", "error", nil, errors.New("x")))

	// nothing logged yet today; yesterday's counts must not show
	l.now = func() time.Time { return now.Add(24 * time.Hour) }

	index, err := l.Index()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", index.Date)
	assert.Zero(t, index.Entries)
	assert.Zero(t, index.Errors)
	assert.Empty(t, index.ByAction)
}

func TestIndex_EmptyJournal(t *testing.T) {
	l := newTestLogger(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	index, err := l.Index()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", index.Date)
	assert.Zero(t, index.Entries)
}
