package prophet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumn(t *testing.T) {
	tbl := NewTable([]string{"Accountname", " Branche ", "Website"}, [][]string{
		{"Acme", "Tech", "acme.example"},
		{"Shop"},
	})

	tests := []struct {
		name string
		ref  string
		want []string
	}{
		{"Exact", "Accountname", []string{"Acme", "Shop"}},
		{"FoldedAndTrimmed", "branche", []string{"Tech", ""}},
		{"Index", "#3", []string{"acme.example", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Column(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, ref := range []string{"Missing", "#0", "#4", "#x", " "} {
		_, err := tbl.Column(ref)
		assert.ErrorIs(t, err, ErrConfig, ref)
	}
	assert.True(t, tbl.HasColumn("website"))
	assert.False(t, tbl.HasColumn("Mitarbeiter"))
}

func TestMissingColumns(t *testing.T) {
	header := []string{"Accountname", "Branche"}
	fields := []FieldWeight{{Name: "Branche"}, {Name: "Website"}, {Name: "#1"}, {Name: "#9"}}

	assert.Equal(t, []string{"Website", "#9"}, missingColumns(header, fields))
}
