package form

// Assemble aggregates merged sections into the final FormStructure. It is a
// pure walk: no fallible operations. Empty input yields a valid structure
// with zero sections and the title sentinel, never an error, so callers can
// distinguish "nothing found" from "processing failed".
func Assemble(sections []Section, failures []PageFailure) FormStructure {
	structure := FormStructure{
		Title:          NoTitle,
		Sections:       sections,
		ElementsByType: make(map[ElementKind]int, len(AllElementKinds())),
		Tables:         []Table{},
		PageFailures:   failures,
	}
	if structure.Sections == nil {
		structure.Sections = []Section{}
	}

	for _, kind := range AllElementKinds() {
		structure.ElementsByType[kind] = 0
	}

	for _, section := range structure.Sections {
		for _, el := range section.Elements {
			structure.ElementsByType[el.Kind]++
			structure.TotalElements++
		}
		// Flattened view keeps section order, then table order within it.
		structure.Tables = append(structure.Tables, section.Tables...)
	}

	structure.Title = deriveTitle(structure.Sections)
	return structure
}

// deriveTitle returns the first recognized block's text: the heading of the
// first section when a heading cue opened it, otherwise the first element's
// first source block. Documents with zero blocks get the sentinel.
func deriveTitle(sections []Section) string {
	for _, section := range sections {
		if section.Heading != "" {
			return section.Heading
		}
		for _, el := range section.Elements {
			if len(el.SourceBlocks) > 0 {
				return el.SourceBlocks[0].Text
			}
		}
	}
	return NoTitle
}
