// Package state persists follow checkpoints between runs.
package state

import (
	"time"
)

// Checkpoint records how far a followed file has been read.
type Checkpoint struct {
	Path      string    `json:"path"`       // Absolute path of the followed file
	Lines     int       `json:"lines"`      // Lines already emitted
	UpdatedAt time.Time `json:"updated_at"` // When Lines last changed
}

// Find returns the checkpoint for path.
func Find(cps []Checkpoint, path string) (Checkpoint, bool) {
	for _, cp := range cps {
		if cp.Path == path {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// Upsert replaces the checkpoint for cp.Path or appends cp.
func Upsert(cps []Checkpoint, cp Checkpoint) []Checkpoint {
	out := make([]Checkpoint, 0, len(cps)+1)
	replaced := false
	for _, c := range cps {
		if c.Path == cp.Path {
			c = cp
			replaced = true
		}
		out = append(out, c)
	}
	if !replaced {
		out = append(out, cp)
	}
	return out
}

// Remove drops the checkpoint for path.
func Remove(cps []Checkpoint, path string) []Checkpoint {
	var out []Checkpoint
	for _, c := range cps {
		if c.Path != path {
			out = append(out, c)
		}
	}
	return out
}
