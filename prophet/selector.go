package prophet

import "fmt"

// Select returns the rows of candidate whose label is a known cluster, in
// their original order and with all columns copied verbatim.
func Select(candidate *Table, labels []Label, known map[int]struct{}) (*Table, error) {
	if len(labels) != candidate.Len() {
		return nil, fmt.Errorf("select: %d labels for %d rows", len(labels), candidate.Len())
	}
	out := candidate.emptyLike()
	for i, l := range labels {
		id, ok := l.ClusterID()
		if !ok {
			continue
		}
		if _, found := known[id]; !found {
			continue
		}
		out.Rows = append(out.Rows, cloneStrings(candidate.Rows[i]))
	}
	return out, nil
}
