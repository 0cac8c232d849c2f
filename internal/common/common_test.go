package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQualified(t *testing.T) {
	tests := []struct {
		in      string
		pkgPath string
		name    string
	}{
		{"example.com/store.Order", "example.com/store", "Order"},
		{"store.Order", "store", "Order"},
		{"Order", "", "Order"},
		{"time.Time", "time", "Time"},
		{"example.com/a.b/c.Type", "example.com/a.b/c", "Type"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pkgPath, name := SplitQualified(tt.in)
			assert.Equal(t, tt.pkgPath, pkgPath)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestSortedSet(t *testing.T) {
	assert.Nil(t, SortedSet())
	assert.Nil(t, SortedSet([]string{""}))
	assert.Equal(t, []string{"a", "b", "c"}, SortedSet([]string{"c", "a"}, []string{"b", "a"}))
}

func TestExportedName(t *testing.T) {
	assert.Equal(t, "Order", ExportedName("order"))
	assert.Equal(t, "", ExportedName(""))
}
