// Package record splits lines into comma-separated fields and joins them back.
//
// There is no quoting or escaping: a field that contains a comma is split in
// two. Empty fields are kept, so Parse and String round-trip any line.
package record

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Delimiter separates the fields of a record.
const Delimiter = ","

// Record is one line interpreted as comma-separated fields.
type Record []string

// Parse splits line on Delimiter.
func Parse(line string) Record {
	return Record(strings.Split(line, Delimiter))
}

// ParseAll splits every line.
func ParseAll(lines []string) []Record {
	recs := make([]Record, len(lines))
	for i, line := range lines {
		recs[i] = Parse(line)
	}
	return recs
}

// Join returns the line form of every record.
func Join(recs []Record) []string {
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = r.String()
	}
	return lines
}

// String joins the fields with Delimiter.
func (r Record) String() string {
	return strings.Join(r, Delimiter)
}

// Field returns field i, or false if the record is too short.
func (r Record) Field(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// Hash identifies the record by the sha256 of its line form.
func (r Record) Hash() string {
	hash := sha256.Sum256([]byte(r.String()))
	return hex.EncodeToString(hash[:])
}
