package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlens/formlens/internal/recognizer"
)

func TestExtractTables_CopiesRowsVerbatim(t *testing.T) {
	region := recognizer.TableRegion{
		BBox: [4]float64{0.1, 0.3, 0.9, 0.5},
		Rows: [][]string{
			{"이름", "생년월일"},
			{"홍길동", "1990-01-01"},
			{"", "비고 없음"},
		},
	}

	tables := ExtractTables(0, []recognizer.TableRegion{region})
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, 0, table.PageIndex)
	assert.Equal(t, region.Rows, table.Rows)
	assert.Equal(t, BBox{X0: 0.1, Y0: 0.3, X1: 0.9, Y1: 0.5}, table.BBox)

	// The rows are deep-copied: mutating the region must not leak through.
	region.Rows[0][0] = "변경됨"
	assert.Equal(t, "이름", table.Rows[0][0])
}

func TestExtractTables_Empty(t *testing.T) {
	tables := ExtractTables(0, nil)
	assert.Empty(t, tables)
}

func TestAssignTables_AttachesToPrecedingSection(t *testing.T) {
	sections := []Section{
		{Top: 0.05, Bottom: 0.20},
		{Top: 0.25, Bottom: 0.40},
	}
	tables := []Table{
		{BBox: BBox{Y0: 0.22, Y1: 0.24}}, // below section 1, above section 2
		{BBox: BBox{Y0: 0.45, Y1: 0.60}}, // below section 2
	}

	sections, orphans := AssignTables(sections, tables)
	assert.Empty(t, orphans)
	require.Len(t, sections[0].Tables, 1)
	require.Len(t, sections[1].Tables, 1)
	assert.Equal(t, 0.22, sections[0].Tables[0].BBox.Y0)
	assert.Equal(t, 0.45, sections[1].Tables[0].BBox.Y0)
}

func TestAssignTables_NoPrecedingSectionIsOrphan(t *testing.T) {
	sections := []Section{{Top: 0.50, Bottom: 0.80}}
	tables := []Table{{BBox: BBox{Y0: 0.10, Y1: 0.30}}}

	sections, orphans := AssignTables(sections, tables)
	assert.Empty(t, sections[0].Tables)
	require.Len(t, orphans, 1)
	assert.Equal(t, 0.10, orphans[0].BBox.Y0)
}

func TestAssignTables_NoSections(t *testing.T) {
	tables := []Table{{BBox: BBox{Y0: 0.10, Y1: 0.30}}}

	sections, orphans := AssignTables(nil, tables)
	assert.Empty(t, sections)
	assert.Len(t, orphans, 1)
}
