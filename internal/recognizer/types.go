// Package recognizer defines the input contract with the external OCR and
// layout-detection collaborators, plus thin adapters that produce that input
// from local sources (Tesseract images, born-digital PDFs, recognizer JSON).
package recognizer

import (
	"fmt"
	"os"
	"sort"

	"github.com/bytedance/sonic"
)

// RawBlock is a single recognized text span as reported by the OCR
// collaborator: text, page-normalized bbox (x0,y0,x1,y1) and confidence.
type RawBlock struct {
	Text       string     `json:"text"`
	BBox       [4]float64 `json:"bbox"`
	Confidence float64    `json:"confidence"`
}

// TableRegion is a table detected by the layout collaborator. Rows carry
// recognized cell text in detector order; blank cells are empty strings.
type TableRegion struct {
	BBox [4]float64 `json:"bbox"`
	Rows [][]string `json:"rows"`
}

// PageInput is the recognizer/layout output for one page. Error is set by
// the upstream collaborator when recognition failed for that page; the
// pipeline turns it into a page-level failure.
type PageInput struct {
	PageIndex int           `json:"page_index"`
	Blocks    []RawBlock    `json:"blocks"`
	Tables    []TableRegion `json:"tables,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Document is the full recognizer output for one scanned document.
type Document struct {
	Source string      `json:"source,omitempty"`
	Pages  []PageInput `json:"pages"`
}

// Validate checks page indices are non-negative and unique. Page order in
// the slice is not required; the pipeline orders by PageIndex.
func (d *Document) Validate() error {
	seen := make(map[int]bool, len(d.Pages))
	for _, p := range d.Pages {
		if p.PageIndex < 0 {
			return fmt.Errorf("invalid page index %d", p.PageIndex)
		}
		if seen[p.PageIndex] {
			return fmt.Errorf("duplicate page index %d", p.PageIndex)
		}
		seen[p.PageIndex] = true
	}
	return nil
}

// SortedPages returns the pages ordered by PageIndex.
func (d *Document) SortedPages() []PageInput {
	pages := make([]PageInput, len(d.Pages))
	copy(pages, d.Pages)
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageIndex < pages[j].PageIndex })
	return pages
}

// LoadDocument reads recognizer output from a JSON file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recognizer output: %w", err)
	}

	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse recognizer output: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recognizer output: %w", err)
	}

	return &doc, nil
}
