package form

import (
	"regexp"
	"unicode/utf8"
)

// SectionDraft is a contiguous group of blocks belonging to one visual
// region, before element classification. When a heading cue opened the
// section, the cue block becomes the heading and is excluded from Blocks.
type SectionDraft struct {
	Heading      string
	HeadingBlock *TextBlock
	Blocks       []TextBlock
}

// HasHeadingCue reports whether a heading-like block opened this section.
func (d SectionDraft) HasHeadingCue() bool { return d.HeadingBlock != nil }

// Bounds returns the vertical span covered by the section's blocks,
// heading included.
func (d SectionDraft) Bounds() (top, bottom float64) {
	first := true
	consider := func(b BBox) {
		if first || b.Y0 < top {
			top = b.Y0
		}
		if first || b.Y1 > bottom {
			bottom = b.Y1
		}
		first = false
	}
	if d.HeadingBlock != nil {
		consider(d.HeadingBlock.BBox)
	}
	for _, b := range d.Blocks {
		consider(b.BBox)
	}
	return top, bottom
}

// Segmentation is the per-page segmentation result. MedianSpacing is kept
// for the cross-page continuation check at merge time.
type Segmentation struct {
	Drafts        []SectionDraft
	MedianSpacing float64
}

// Segmenter groups ordered blocks into sections using heading cues and
// vertical gaps.
type Segmenter struct {
	config   StructuringConfig
	patterns []*regexp.Regexp
}

// NewSegmenter creates a segmenter, compiling the structural heading
// patterns. Invalid patterns are skipped.
func NewSegmenter(config StructuringConfig) *Segmenter {
	s := &Segmenter{config: config}
	for _, src := range config.HeadingPatterns {
		if re, err := regexp.Compile(src); err == nil {
			s.patterns = append(s.patterns, re)
		}
	}
	return s
}

// Segment splits the page's ordered blocks into section drafts. A new
// section begins on a heading-like block or when the vertical gap to the
// previous block exceeds the configured multiple of median line spacing.
// The first block always opens the first section, heading-like or not.
func (s *Segmenter) Segment(blocks []TextBlock) Segmentation {
	if len(blocks) == 0 {
		return Segmentation{}
	}

	medianHeight := medianBlockHeight(blocks)
	spacing := medianLineSpacing(blocks, medianHeight)
	gapThreshold := s.config.SectionGapRatio * spacing

	var drafts []SectionDraft
	var current *SectionDraft

	open := func(headingBlock *TextBlock) {
		draft := SectionDraft{}
		if headingBlock != nil {
			draft.Heading = headingBlock.Text
			draft.HeadingBlock = headingBlock
		}
		drafts = append(drafts, draft)
		current = &drafts[len(drafts)-1]
	}

	for i := range blocks {
		block := blocks[i]
		heading := s.isHeadingLike(block, medianHeight)

		switch {
		case i == 0:
			if heading {
				open(&blocks[i])
				continue
			}
			open(nil)
		case heading:
			open(&blocks[i])
			continue
		case block.BBox.Y0-blocks[i-1].BBox.Y1 > gapThreshold:
			open(nil)
		}

		current.Blocks = append(current.Blocks, block)
	}

	return Segmentation{Drafts: drafts, MedianSpacing: spacing}
}

// isHeadingLike applies the heading heuristics: short text rendered taller
// than the page median, or a structural heading pattern.
func (s *Segmenter) isHeadingLike(block TextBlock, medianHeight float64) bool {
	runes := utf8.RuneCountInString(block.Text)
	if runes <= s.config.HeadingMaxRunes &&
		block.BBox.Height() > s.config.HeadingHeightRatio*medianHeight {
		return true
	}
	for _, re := range s.patterns {
		if re.MatchString(block.Text) {
			return true
		}
	}
	return false
}

// medianLineSpacing is the median positive delta between consecutive block
// vertical centers, falling back to the median block height on a page with
// a single line.
func medianLineSpacing(blocks []TextBlock, medianHeight float64) float64 {
	var deltas []float64
	for i := 1; i < len(blocks); i++ {
		if d := blocks[i].BBox.VCenter() - blocks[i-1].BBox.VCenter(); d > 0 {
			deltas = append(deltas, d)
		}
	}
	if len(deltas) == 0 {
		return medianHeight
	}
	return median(deltas)
}
