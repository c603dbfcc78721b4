package domain

import (
	"sort"
	"strings"
)

// Fingerprints maps a document ID to the last modification timestamp that
// was successfully indexed.
type Fingerprints map[string]string

// NeedsReindex reports whether the document must be processed again.
// Comparison is exact: any difference in the normalised timestamp counts.
func (f Fingerprints) NeedsReindex(id, current string) bool {
	stored, ok := f[id]
	return !ok || stored != current
}

// Record stores the timestamp for a document.
func (f Fingerprints) Record(id, current string) {
	f[id] = current
}

// Known reports whether the document has been indexed before.
func (f Fingerprints) Known(id string) bool {
	_, ok := f[id]
	return ok
}

// Forget removes a document from the map.
func (f Fingerprints) Forget(id string) {
	delete(f, id)
}

// IDs returns the sorted IDs starting with prefix.
func (f Fingerprints) IDs(prefix string) []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
