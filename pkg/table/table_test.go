package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linekit/pkg/editor"
	"linekit/pkg/fsys"
	"linekit/pkg/lineerr"
	"linekit/pkg/linestore"
	"linekit/pkg/record"
)

const people = "/people.csv"

func newTestTable(t *testing.T, content string) (*Table, *fsys.MemFS) {
	t.Helper()
	m := fsys.NewMemFS()
	m.AddFile(people, content)
	return New(editor.New(linestore.New(m))), m
}

func fileContent(t *testing.T, m *fsys.MemFS, name string) string {
	t.Helper()
	data, err := m.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func TestScenarioB(t *testing.T) {
	tb, m := newTestTable(t, "id,name\n1,alice\n2,bob\n")

	col, err := tb.GetColumn(people, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "alice", "bob"}, col)

	require.NoError(t, tb.DeleteColumn(people, 0))
	assert.Equal(t, "name\nalice\nbob\n", fileContent(t, m, people))
}

func TestScenarioC(t *testing.T) {
	tb, m := newTestTable(t, "a,1\nb,2\nc,3\n")

	require.NoError(t, tb.AppendColumn(people, []string{"x"}))
	assert.Equal(t, "a,1,x\nb,2\nc,3\n", fileContent(t, m, people))
}

func TestAppendColumn_MoreValuesThanRows(t *testing.T) {
	tb, m := newTestTable(t, "a\nb\n")

	require.NoError(t, tb.AppendColumn(people, []string{"1", "2", "3"}))
	assert.Equal(t, "a,1\nb,2\n", fileContent(t, m, people))
}

func TestGetTable_Idempotent(t *testing.T) {
	tb, _ := newTestTable(t, "id,name,\n1,,x\n")

	first, err := tb.GetTable(people)
	require.NoError(t, err)
	second, err := tb.GetTable(people)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []record.Record{{"id", "name", ""}, {"1", "", "x"}}, first)
}

func TestGetRow(t *testing.T) {
	tb, _ := newTestTable(t, "id,name\n1,alice\n")

	rec, err := tb.GetRow(people, 2)
	require.NoError(t, err)
	assert.Equal(t, record.Record{"1", "alice"}, rec)

	_, err = tb.GetRow(people, 3)
	assert.True(t, lineerr.IsOutOfRange(err))
}

func TestLookupRow(t *testing.T) {
	tb, _ := newTestTable(t, "id,name\n1,alice\n")

	rec, ok, err := tb.LookupRow(people, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, record.Record{"id", "name"}, rec)

	for _, n := range []int{0, 3, -2} {
		rec, ok, err = tb.LookupRow(people, n)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, rec)
	}

	_, _, err = tb.LookupRow("/missing.csv", 1)
	assert.True(t, lineerr.IsNotFound(err), "read failures are not downgraded")
}

func TestGetRowsAboveBelow(t *testing.T) {
	tb, _ := newTestTable(t, "h\n1\n2\n")

	below, err := tb.GetRowsBelow(people, 1)
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"1"}, {"2"}}, below)

	above, err := tb.GetRowsAbove(people, 1)
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"h"}}, above)

	below, err = tb.GetRowsBelow(people, 5)
	require.NoError(t, err)
	assert.Empty(t, below)
}

func TestGetColumns(t *testing.T) {
	tb, _ := newTestTable(t, "id,name,age\n1,alice\n2,bob,40\n")

	cols, err := tb.GetColumns(people, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"age", "40"}, {"id", "1", "2"}}, cols)

	col, err := tb.GetColumn(people, 7)
	require.NoError(t, err)
	assert.Empty(t, col, "rows too short are skipped")

	_, err = tb.GetColumn(people, -1)
	assert.True(t, lineerr.IsOutOfRange(err))
}

func TestDeleteColumn_ShortRow(t *testing.T) {
	const content = "id,name,age\n1,alice\n2,bob,40\n"
	tb, m := newTestTable(t, content)

	err := tb.DeleteColumn(people, 2)
	require.True(t, lineerr.IsOutOfRange(err))

	var re *lineerr.RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 2, re.Index)
	assert.Equal(t, 1, re.Max)
	assert.Contains(t, err.Error(), "row 2")
	assert.Equal(t, content, fileContent(t, m, people), "nothing is written when a row is short")
}

func TestRowEdits(t *testing.T) {
	tb, m := newTestTable(t, "id,name\n1,alice\n")

	require.NoError(t, tb.AppendRow(people, record.Record{"3", "carol"}))
	require.NoError(t, tb.InsertRow(people, 3, record.Record{"2", "bob"}))
	require.NoError(t, tb.AppendRows(people, []record.Record{{"4", "dan"}, {"5", "eve"}}))
	require.NoError(t, tb.InsertRows(people, 2, []record.Record{{"0", "zed"}}))
	assert.Equal(t, "id,name\n0,zed\n1,alice\n2,bob\n3,carol\n4,dan\n5,eve\n", fileContent(t, m, people))

	require.NoError(t, tb.OverrideRow(people, 2, record.Record{"0", "zoe"}))
	require.NoError(t, tb.OverrideRows(people, 6, []record.Record{{"4", "DAN"}, {"5", "EVE"}}))
	require.NoError(t, tb.DeleteRow(people, 2))
	assert.Equal(t, "id,name\n1,alice\n2,bob\n3,carol\n4,DAN\n5,EVE\n", fileContent(t, m, people))

	require.NoError(t, tb.DeleteRows(people, 2, 4))
	assert.Equal(t, "id,name\n2,bob\n4,DAN\n5,EVE\n", fileContent(t, m, people))

	assert.True(t, lineerr.IsOutOfRange(tb.OverrideRows(people, 4, []record.Record{{"a"}, {"b"}})))
	require.NoError(t, tb.OverrideRows(people, 99, nil))
}

func TestOverrideTable(t *testing.T) {
	tb, m := newTestTable(t, "old\n")
	m.AddFile("/other.csv", "x,y\n")

	require.NoError(t, tb.OverrideTable(people, []record.Record{{"a", "b"}, {"c", "d"}}))
	assert.Equal(t, "a,b\nc,d\n", fileContent(t, m, people))

	require.NoError(t, tb.AppendFile(people, "/other.csv"))
	assert.Equal(t, "a,b\nc,d\nx,y\n", fileContent(t, m, people))

	require.NoError(t, tb.OverrideWithFile(people, "/other.csv"))
	assert.Equal(t, "x,y\n", fileContent(t, m, people))
}

func TestCommaInFieldIsSplit(t *testing.T) {
	tb, _ := newTestTable(t, "")

	require.NoError(t, tb.AppendRow(people, record.Record{"Smith, John", "42"}))

	rec, err := tb.GetRow(people, 1)
	require.NoError(t, err)
	assert.Equal(t, record.Record{"Smith", " John", "42"}, rec)
}
