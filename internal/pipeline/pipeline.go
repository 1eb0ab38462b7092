// Package pipeline runs the document-level structuring operation: bounded
// concurrent per-page structuring, an ordered merge across pages, assembly
// and result metadata.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formlens/formlens/internal/form"
	"github.com/formlens/formlens/internal/recognizer"
)

// Options control the concurrency and fault-tolerance behavior of the
// document pipeline.
type Options struct {
	// MaxWorkers bounds the per-page fan-out. Zero or negative means 1.
	MaxWorkers int

	// FailFast aborts the whole document with an aggregated error when any
	// page fails. When false (the default mode) the pipeline keeps the
	// remaining pages and records per-page failure markers instead, so a
	// long document is not lost to one bad page.
	FailFast bool

	// Timeout bounds the whole document run. Zero disables the deadline.
	Timeout time.Duration
}

// DefaultOptions returns the default pipeline behavior.
func DefaultOptions() Options {
	return Options{MaxWorkers: 4, FailFast: false, Timeout: 60 * time.Second}
}

// Service owns the structuring components and the immutable configuration
// they share. It holds no per-request state: every invocation builds its
// own sections and elements, so no locking is needed during fan-out.
type Service struct {
	opts       Options
	config     form.StructuringConfig
	normalizer *form.Normalizer
	segmenter  *form.Segmenter
	classifier *form.Classifier
	extractor  *form.Extractor
}

// NewService creates a document structuring service.
func NewService(config form.StructuringConfig, opts Options) *Service {
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	return &Service{
		opts:       opts,
		config:     config,
		normalizer: form.NewNormalizer(config),
		segmenter:  form.NewSegmenter(config),
		classifier: form.NewClassifier(config),
		extractor:  form.NewExtractor(config),
	}
}

// StructureResult is the outcome of one document run.
type StructureResult struct {
	AnalysisID     string             `json:"analysis_id"`
	Form           form.FormStructure `json:"form"`
	ProcessingTime time.Duration      `json:"processing_time"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// pageOutcome is one slot of the page-indexed join. Sections carry no ids
// yet; numbering happens document-wide at merge time.
type pageOutcome struct {
	pageIndex     int
	sections      []form.Section
	headingCues   []bool
	orphanTables  []form.Table
	medianSpacing float64
	firstTop      float64
	lastBottom    float64
	hasBlocks     bool
	warnings      []string
	err           *form.PageProcessingError
}

// StructureDocument runs the full pipeline over recognizer output. Pages
// are processed concurrently; the merge joins them strictly by page index,
// so out-of-order completion never affects output order.
func (s *Service) StructureDocument(ctx context.Context, doc *recognizer.Document) (*StructureResult, error) {
	start := time.Now()

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	pages := doc.SortedPages()
	outcomes := make([]pageOutcome, len(pages))

	sem := make(chan struct{}, s.opts.MaxWorkers)
	var wg sync.WaitGroup
	for i := range pages {
		wg.Add(1)
		go func(slot int, page recognizer.PageInput) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[slot] = pageOutcome{
					pageIndex: page.PageIndex,
					err:       &form.PageProcessingError{PageIndex: page.PageIndex, Err: ctx.Err()},
				}
				return
			}

			outcomes[slot] = s.processPage(page)
		}(i, pages[i])
	}
	wg.Wait()

	structure, warnings, err := s.merge(outcomes)
	if err != nil {
		return nil, err
	}

	return &StructureResult{
		AnalysisID:     uuid.NewString(),
		Form:           structure,
		ProcessingTime: time.Since(start),
		Warnings:       warnings,
	}, nil
}

// processPage runs normalization, segmentation, classification, table
// extraction and KIE for a single page. It shares only the read-only
// configuration with its siblings.
func (s *Service) processPage(page recognizer.PageInput) pageOutcome {
	outcome := pageOutcome{pageIndex: page.PageIndex}

	if page.Error != "" {
		outcome.err = &form.PageProcessingError{
			PageIndex: page.PageIndex,
			Err:       fmt.Errorf("recognizer failure: %s", page.Error),
		}
		return outcome
	}

	blocks, skipped := s.normalizer.Normalize(page.PageIndex, page.Blocks)
	for _, sk := range skipped {
		outcome.warnings = append(outcome.warnings, sk.Error())
	}

	segmentation := s.segmenter.Segment(blocks)
	outcome.medianSpacing = segmentation.MedianSpacing

	if len(blocks) > 0 {
		outcome.hasBlocks = true
		outcome.firstTop = blocks[0].BBox.Y0
		outcome.lastBottom = blocks[len(blocks)-1].BBox.Y1
	}

	for _, draft := range segmentation.Drafts {
		elements := s.classifier.ClassifyAll(draft.Blocks)
		s.extractor.Apply(elements)

		top, bottom := draft.Bounds()
		outcome.sections = append(outcome.sections, form.Section{
			Heading:  draft.Heading,
			PageMin:  page.PageIndex,
			PageMax:  page.PageIndex,
			Top:      top,
			Bottom:   bottom,
			Elements: elements,
		})
		outcome.headingCues = append(outcome.headingCues, draft.HasHeadingCue())
	}

	tables := form.ExtractTables(page.PageIndex, page.Tables)
	outcome.sections, outcome.orphanTables = form.AssignTables(outcome.sections, tables)

	return outcome
}

// merge joins per-page outcomes in page-index order: failure handling per
// the fault-tolerance mode, cross-page section continuation, orphan table
// resolution, document-wide renumbering and final assembly.
func (s *Service) merge(outcomes []pageOutcome) (form.FormStructure, []string, error) {
	var merged []form.Section
	var failures []form.PageFailure
	var pageErrs []*form.PageProcessingError
	var warnings []string
	var pendingTables []form.Table
	var prev *pageOutcome

	for i := range outcomes {
		outcome := &outcomes[i]
		warnings = append(warnings, outcome.warnings...)

		if outcome.err != nil {
			if s.opts.FailFast {
				pageErrs = append(pageErrs, outcome.err)
			} else {
				log.Printf("Warning: %v", outcome.err)
				failures = append(failures, form.PageFailure{
					PageIndex: outcome.pageIndex,
					Message:   outcome.err.Err.Error(),
				})
			}
			continue
		}

		// A table above every section on its own page belongs to the last
		// section of a prior page. When nothing precedes it in the document
		// it waits for Section_1.
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			last.Tables = append(last.Tables, outcome.orphanTables...)
		} else {
			pendingTables = append(pendingTables, outcome.orphanTables...)
		}

		sections := outcome.sections
		if len(sections) > 0 && len(merged) > 0 &&
			s.continuesLayout(prev, outcome) && !outcome.headingCues[0] {
			// The layout flows across the page break: fold the next page's
			// first section into the prior page's last section.
			last := &merged[len(merged)-1]
			last.Elements = append(last.Elements, sections[0].Elements...)
			last.Tables = append(last.Tables, sections[0].Tables...)
			last.PageMax = outcome.pageIndex
			sections = sections[1:]
		}
		merged = append(merged, sections...)

		if outcome.hasBlocks {
			prev = outcome
		}
	}

	if len(pageErrs) > 0 {
		return form.FormStructure{}, nil, &form.DocumentError{PageErrors: pageErrs}
	}

	// Tables that are the document's first content get a Section_1 of
	// their own; every table belongs to exactly one section.
	if len(pendingTables) > 0 {
		if len(merged) == 0 {
			first := pendingTables[0]
			merged = append(merged, form.Section{
				PageMin: first.PageIndex,
				PageMax: first.PageIndex,
				Top:     first.BBox.Y0,
				Bottom:  first.BBox.Y1,
			})
		}
		merged[0].Tables = append(pendingTables, merged[0].Tables...)
	}

	renumber(merged)

	return form.Assemble(merged, failures), warnings, nil
}

// continuesLayout reports whether the first block of the next page follows
// the last block of the previous page within the normal section gap,
// treating the page boundary itself as zero extra gap.
func (s *Service) continuesLayout(prev, next *pageOutcome) bool {
	if prev == nil || !prev.hasBlocks || !next.hasBlocks {
		return false
	}
	gap := (1 - prev.lastBottom) + next.firstTop
	return gap <= s.config.SectionGapRatio*prev.medianSpacing
}

// renumber assigns contiguous 1-based section ids across the document and
// stamps them onto every owned element and table.
func renumber(sections []form.Section) {
	for i := range sections {
		sections[i].Number = i + 1
		sections[i].ID = form.SectionID(i + 1)
		for j := range sections[i].Elements {
			sections[i].Elements[j].SectionID = sections[i].ID
		}
		for j := range sections[i].Tables {
			sections[i].Tables[j].SectionID = sections[i].ID
		}
	}
}
