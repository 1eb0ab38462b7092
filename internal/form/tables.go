package form

import "github.com/formlens/formlens/internal/recognizer"

// ExtractTables converts detector table regions into Table entities. Rows
// and cells are copied verbatim in detector order; nothing is re-ordered or
// re-classified.
func ExtractTables(pageIndex int, regions []recognizer.TableRegion) []Table {
	tables := make([]Table, 0, len(regions))
	for _, region := range regions {
		rows := make([][]string, len(region.Rows))
		for i, row := range region.Rows {
			cells := make([]string, len(row))
			copy(cells, row)
			rows[i] = cells
		}
		tables = append(tables, Table{
			Rows:      rows,
			BBox:      BBox{X0: region.BBox[0], Y0: region.BBox[1], X1: region.BBox[2], Y1: region.BBox[3]},
			PageIndex: pageIndex,
		})
	}
	return tables
}

// AssignTables attaches each table to the last section on the page whose
// top edge does not lie below the table's top edge. Tables with no
// preceding section on the page are returned for the merger to resolve
// against the prior page (or Section_1 when they are the document's first
// content).
func AssignTables(sections []Section, tables []Table) ([]Section, []Table) {
	var orphans []Table

	for _, table := range tables {
		idx := -1
		for i := range sections {
			if sections[i].Top <= table.BBox.Y0 {
				idx = i
			}
		}
		if idx < 0 {
			orphans = append(orphans, table)
			continue
		}
		// Section ids are assigned document-wide at merge time; the table's
		// SectionID is stamped there as well.
		sections[idx].Tables = append(sections[idx].Tables, table)
	}

	return sections, orphans
}
