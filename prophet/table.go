package prophet

// Table is a delimited record table held in memory. Every row has exactly
// len(Header) cells and rows keep the order they were read in.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds a table, padding short rows with empty cells.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: cloneStrings(header), Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		t.Rows = append(t.Rows, t.fit(row))
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the values of the referenced column, one per row. The
// reference is a header name or a 1-based "#N" index.
func (t *Table) Column(ref string) ([]string, error) {
	idx, err := resolveColumn(t.Header, ref)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

// HasColumn reports whether ref resolves against the header.
func (t *Table) HasColumn(ref string) bool {
	_, err := resolveColumn(t.Header, ref)
	return err == nil
}

// emptyLike returns a table with the same header and no rows.
func (t *Table) emptyLike() *Table {
	return &Table{Header: cloneStrings(t.Header), Rows: [][]string{}}
}

func (t *Table) fit(row []string) []string {
	out := make([]string, len(t.Header))
	copy(out, row)
	return out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
