package form

import (
	"fmt"
	"strings"
)

// MalformedBlockError marks a recognizer block with degenerate geometry.
// The block is skipped with a warning; the page keeps processing.
type MalformedBlockError struct {
	PageIndex int
	Text      string
	BBox      BBox
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed block on page %d: degenerate bbox (%.3f,%.3f,%.3f,%.3f) for %q",
		e.PageIndex, e.BBox.X0, e.BBox.Y0, e.BBox.X1, e.BBox.Y1, e.Text)
}

// PageProcessingError is a page-level failure reported by the recognizer
// collaborator or hit while structuring one page. The pipeline's fault
// tolerance mode decides whether it aborts the document.
type PageProcessingError struct {
	PageIndex int
	Err       error
}

func (e *PageProcessingError) Error() string {
	return fmt.Sprintf("page %d: %v", e.PageIndex, e.Err)
}

func (e *PageProcessingError) Unwrap() error { return e.Err }

// DocumentError aggregates per-page failures when the pipeline runs in
// fail-fast mode.
type DocumentError struct {
	PageErrors []*PageProcessingError
}

func (e *DocumentError) Error() string {
	msgs := make([]string, len(e.PageErrors))
	for i, pe := range e.PageErrors {
		msgs[i] = pe.Error()
	}
	return fmt.Sprintf("document processing failed on %d page(s): %s",
		len(e.PageErrors), strings.Join(msgs, "; "))
}
