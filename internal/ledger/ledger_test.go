package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curfmt/internal/transform"
)

func TestSQLite_RecordAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	ok := transform.Outcome{
		Job:     transform.Job{Input: "a.csv", Output: "a_formatted.csv"},
		Status:  transform.StatusOK,
		Started: time.Now(),
		Result: &transform.Result{
			Rows: 3, InputColumns: 4, OutputColumns: 5,
			Appended: []string{"pricing_unit"}, Bytes: 120, Checksum: "00000000deadbeef",
		},
	}
	failed := transform.Outcome{
		Job:    transform.Job{Input: "b.csv", Output: "b_formatted.csv"},
		Status: transform.StatusFailed,
		Kind:   transform.KindNotFound,
		Error:  "b.csv: not_found: file not found",
		Err:    errors.New("file not found"),
	}
	require.NoError(t, l.Record(ctx, FromOutcome("run-1", ok)))
	require.NoError(t, l.Record(ctx, FromOutcome("run-1", failed)))
	require.NoError(t, l.Record(ctx, FromOutcome("run-2", ok)))

	sqlLedger, isSQL := l.(*SQL)
	require.True(t, isSQL)
	got, err := sqlLedger.List(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a.csv", got[0].Input)
	assert.Equal(t, transform.StatusOK, got[0].Status)
	assert.EqualValues(t, 3, got[0].Rows)
	assert.Equal(t, 5, got[0].OutputColumns)
	assert.Equal(t, []string{"pricing_unit"}, got[0].Appended)
	assert.Equal(t, "00000000deadbeef", got[0].Checksum)

	assert.Equal(t, "b.csv", got[1].Input)
	assert.Equal(t, "not_found", got[1].Kind)
	assert.Empty(t, got[1].Appended)
}

func TestSQLite_ReopenKeepsTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Entry{RunID: "r", Input: "x", Output: "y", Status: "ok"}))
	require.NoError(t, l.Close())

	l, err = Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer l.Close()
	got, err := l.(*SQL).List(ctx, "r")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpen_NopAndErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, err := Open(ctx, "", "")
	require.NoError(t, err)
	assert.NoError(t, l.Record(ctx, Entry{}))
	assert.NoError(t, l.Close())

	_, err = Open(ctx, "postgres", "x")
	assert.Error(t, err)

	_, err = Open(ctx, "mysql", "not a dsn")
	assert.Error(t, err)
}
