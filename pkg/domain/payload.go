package domain

import (
	"maps"
	"strconv"
)

// Payload maps submission keys to their values.
type Payload map[string][]string

// Merge copies every key of other into p, appending to existing keys.
func (p Payload) Merge(other Payload) {
	for k, v := range other {
		p[k] = append(p[k], v...)
	}
}

// Clone returns a deep copy of p.
func (p Payload) Clone() Payload {
	out := maps.Clone(p)
	for k, v := range out {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// DraftEntry is one entry of the running draft: [null, entryID, values, 0]
// with the "other" text appended when present.
type DraftEntry []any

func newDraftEntry(entryID int64, values []string) DraftEntry {
	return DraftEntry{nil, entryID, append([]string(nil), values...), 0}
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
