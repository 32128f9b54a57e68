package auditlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2023, 10, 25, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Actor:     "owner",
		Action:    ActionAdd,
		Details:   "expense 45.00 @9% ingredients",
		RecordID:  "2023-10-001",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "owner", entries[0].Actor)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionDelete
	e2.Details = "deleted by hand"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionAdd, entries[0].Action)
	assert.Equal(t, ActionDelete, entries[1].Action)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "audit-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, Header+"\n", string(data[:len(Header)+1]))
}

func TestLogger_Log(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "kitchen")
	l.now = func() time.Time { return testTime }

	require.NoError(t, l.Log(ActionImport, "2023-10-004", "orders.csv, row 2"))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		Timestamp: testTime,
		Actor:     "kitchen",
		Action:    ActionImport,
		Details:   "orders.csv, row 2",
		RecordID:  "2023-10-004",
	}, entries[0])
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "audit-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalUnmarshal(t *testing.T) {
	e := testEntry()
	row := MarshalEntry(e)
	assert.Len(t, row, 5)

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, e.Actor, got.Actor)
	assert.Equal(t, e.Action, got.Action)
	assert.Equal(t, e.Details, got.Details)
	assert.Equal(t, e.RecordID, got.RecordID)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 5 fields")
}

func TestTimestampFormat(t *testing.T) {
	e := testEntry()
	e.Timestamp = time.Date(2023, 10, 25, 12, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	row := MarshalEntry(e)
	assert.Equal(t, "2023-10-25T10:30:00Z", row[0])
}
