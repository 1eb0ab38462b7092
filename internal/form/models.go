// Package form converts ordered recognizer output into a typed form
// structure: sections, classified elements, tables and extracted key
// information. It is the structuring half of the pipeline; rendering lives
// in the prompt package.
package form

import "fmt"

// ElementKind is the classified kind of a form element.
type ElementKind string

const (
	KindTextInput    ElementKind = "text_input"
	KindCheckbox     ElementKind = "checkbox"
	KindButton       ElementKind = "button"
	KindFileUpload   ElementKind = "file_upload"
	KindUnclassified ElementKind = "unclassified"
)

// IsValid checks if the element kind is one of the known kinds.
func (k ElementKind) IsValid() bool {
	switch k {
	case KindTextInput, KindCheckbox, KindButton, KindFileUpload, KindUnclassified:
		return true
	default:
		return false
	}
}

// AllElementKinds returns every classified kind in display order.
func AllElementKinds() []ElementKind {
	return []ElementKind{KindTextInput, KindCheckbox, KindButton, KindFileUpload, KindUnclassified}
}

// NoTitle is the sentinel title for documents with zero recognized blocks.
const NoTitle = "(no title)"

// BBox is a page-normalized bounding box: x0,y0 top-left, x1,y1 bottom-right.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent.
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// VCenter returns the vertical center.
func (b BBox) VCenter() float64 { return (b.Y0 + b.Y1) / 2 }

// Degenerate reports whether the box has zero or negative extent.
func (b BBox) Degenerate() bool { return b.Width() <= 0 || b.Height() <= 0 }

// TextBlock is one recognized text span in reading order. Blocks are
// immutable inputs; everything downstream is derived from them.
type TextBlock struct {
	Text       string  `json:"text"`
	BBox       BBox    `json:"bbox"`
	PageIndex  int     `json:"page_index"`
	Confidence float64 `json:"confidence"`
	OrderHint  int     `json:"order_hint"`
}

// Element is a classified form control or an unclassified text span. It is
// owned by exactly one section.
type Element struct {
	Kind         ElementKind `json:"kind"`
	Label        string      `json:"label,omitempty"`
	Value        string      `json:"value,omitempty"`
	Required     bool        `json:"required,omitempty"`
	SourceBlocks []TextBlock `json:"source_blocks,omitempty"`
	SectionID    string      `json:"section_id"`
}

// SourceText returns the concatenated text of the element's source blocks.
func (e Element) SourceText() string {
	switch len(e.SourceBlocks) {
	case 0:
		return ""
	case 1:
		return e.SourceBlocks[0].Text
	default:
		text := e.SourceBlocks[0].Text
		for _, b := range e.SourceBlocks[1:] {
			text += " " + b.Text
		}
		return text
	}
}

// Table is a detected table with rows preserved in detector order. Cells
// are opaque text; no type inference is performed on them.
type Table struct {
	Rows      [][]string `json:"rows"`
	BBox      BBox       `json:"bbox"`
	PageIndex int        `json:"page_index"`
	SectionID string     `json:"section_id"`
}

// Section is a contiguous vertical region of the document. IDs are
// "Section_<n>", 1-based and contiguous across the whole document.
type Section struct {
	ID      string `json:"id"`
	Number  int    `json:"number"`
	Heading string `json:"heading,omitempty"`
	PageMin int    `json:"page_min"`
	PageMax int    `json:"page_max"`

	// Vertical span on PageMin, used for table association.
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`

	Elements []Element `json:"elements"`
	Tables   []Table   `json:"tables,omitempty"`
}

// SectionID formats the stable id for a 1-based section number.
func SectionID(n int) string { return fmt.Sprintf("Section_%d", n) }

// PageFailure records a page that could not be processed when the pipeline
// runs in continue-on-failure mode.
type PageFailure struct {
	PageIndex int    `json:"page_index"`
	Message   string `json:"message"`
}

// FormStructure is the complete structured representation of one processed
// document.
type FormStructure struct {
	Title          string              `json:"title"`
	Sections       []Section           `json:"sections"`
	ElementsByType map[ElementKind]int `json:"elements_by_type"`
	TotalElements  int                 `json:"total_elements"`
	Tables         []Table             `json:"tables"`
	PageFailures   []PageFailure       `json:"page_failures,omitempty"`
}

// Empty reports whether the document produced no sections at all.
func (f FormStructure) Empty() bool { return len(f.Sections) == 0 }

// StructuringConfig holds every tunable used by the structuring components.
// It is immutable once built and shared read-only across per-page tasks.
type StructuringConfig struct {
	// Block normalization
	RowToleranceRatio float64 // same-row band, fraction of median block height

	// Section segmentation
	HeadingMaxRunes    int      // heading candidate text ceiling
	HeadingHeightRatio float64  // heading height vs median block height
	SectionGapRatio    float64  // section break vs median line spacing
	HeadingPatterns    []string // structural heading regexes

	// Element classification
	ButtonWords        []string // action vocabulary
	FileUploadWords    []string // attachment vocabulary
	RequiredMarkers    []string // substrings flagging a mandatory field
	ButtonMaxRunes     int      // isolated-control text ceiling
	CharWidthRatio     float64  // estimated glyph width as fraction of block height
	TrailingBlankRatio float64  // bbox width vs text width implying blank run

	// Key information extraction
	FuzzyThreshold float64 // fuzzy label acceptance, 0-1
	FieldRules     []FieldRule
}

// DefaultStructuringConfig returns the documented default thresholds. The
// literal values are tuned policy, not verified constants; deployments
// override them through configuration.
func DefaultStructuringConfig() StructuringConfig {
	return StructuringConfig{
		RowToleranceRatio:  0.5,
		HeadingMaxRunes:    48,
		HeadingHeightRatio: 1.35,
		SectionGapRatio:    2.5,
		HeadingPatterns: []string{
			`^\d+[.)]\s`,
			`^제\s?\d+\s?[조항장]`,
			`^[○●■□▶◆]\s?\S`,
		},
		ButtonWords: []string{
			"등록", "조회", "삭제", "저장", "완료", "취소", "찾기", "추가", "제출", "확인",
			"submit", "save", "cancel", "search", "ok",
		},
		FileUploadWords: []string{
			"첨부", "업로드", "파일찾기", "파일첨부",
			"upload", "attach", "drag & drop",
		},
		RequiredMarkers:    []string{"*", "필수"},
		ButtonMaxRunes:     10,
		CharWidthRatio:     0.6,
		TrailingBlankRatio: 1.8,
		FuzzyThreshold:     0.8,
		FieldRules:         DefaultFieldRules(),
	}
}
