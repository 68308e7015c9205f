package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{"plain", "1,alice,admin", Record{"1", "alice", "admin"}},
		{"empty line", "", Record{""}},
		{"empty fields kept", "a,,b,", Record{"a", "", "b", ""}},
		{"no delimiter", "header", Record{"header"}},
		{"spaces untouched", " a , b ", Record{" a ", " b "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.line, got.String())
		})
	}
}

func TestParseAllJoin(t *testing.T) {
	lines := []string{"id,name", "1,alice", "2,bob"}
	recs := ParseAll(lines)
	assert.Equal(t, []Record{{"id", "name"}, {"1", "alice"}, {"2", "bob"}}, recs)
	assert.Equal(t, lines, Join(recs))
}

func TestField(t *testing.T) {
	r := Record{"a", "b"}

	v, ok := r.Field(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = r.Field(2)
	assert.False(t, ok)
	_, ok = r.Field(-1)
	assert.False(t, ok)
}

func TestHash(t *testing.T) {
	a := Record{"1", "alice"}
	assert.Equal(t, a.Hash(), Parse("1,alice").Hash())
	assert.NotEqual(t, a.Hash(), Record{"1", "bob"}.Hash())
	assert.Len(t, a.Hash(), 64)
}

func TestCommaInFieldIsSplit(t *testing.T) {
	r := Record{"Doe, Jane", "x"}
	assert.Equal(t, Record{"Doe", " Jane", "x"}, Parse(r.String()))
}
