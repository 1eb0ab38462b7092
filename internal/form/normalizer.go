package form

import (
	"log"
	"sort"
	"strings"

	"github.com/formlens/formlens/internal/recognizer"
)

// Normalizer converts raw recognizer output for one page into an ordered
// sequence of text blocks with reading-order hints.
type Normalizer struct {
	config StructuringConfig
}

// NewNormalizer creates a normalizer with the given configuration.
func NewNormalizer(config StructuringConfig) *Normalizer {
	return &Normalizer{config: config}
}

// Normalize orders the page's blocks top-to-bottom, left-to-right with a
// row-tolerance band derived from the median block height. Blocks with
// empty text are dropped; blocks with degenerate geometry are skipped and
// reported as MalformedBlockError values, never as a page failure.
func (n *Normalizer) Normalize(pageIndex int, raw []recognizer.RawBlock) ([]TextBlock, []*MalformedBlockError) {
	var blocks []TextBlock
	var skipped []*MalformedBlockError

	for _, rb := range raw {
		text := strings.TrimSpace(rb.Text)
		if text == "" {
			continue
		}

		box := BBox{X0: rb.BBox[0], Y0: rb.BBox[1], X1: rb.BBox[2], Y1: rb.BBox[3]}
		if box.Degenerate() {
			err := &MalformedBlockError{PageIndex: pageIndex, Text: text, BBox: box}
			log.Printf("Warning: skipping block: %v", err)
			skipped = append(skipped, err)
			continue
		}

		blocks = append(blocks, TextBlock{
			Text:       text,
			BBox:       box,
			PageIndex:  pageIndex,
			Confidence: rb.Confidence,
		})
	}

	if len(blocks) == 0 {
		return nil, skipped
	}

	tolerance := n.config.RowToleranceRatio * medianBlockHeight(blocks)

	// Bucket into rows first, anchored on each row's topmost center, then
	// read every row left to right. Clustering before sorting keeps the
	// order independent of the input permutation.
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].BBox.VCenter() < blocks[j].BBox.VCenter()
	})
	for start := 0; start < len(blocks); {
		end := start + 1
		for end < len(blocks) && blocks[end].BBox.VCenter()-blocks[start].BBox.VCenter() <= tolerance {
			end++
		}
		row := blocks[start:end]
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].BBox.X0 < row[j].BBox.X0
		})
		start = end
	}

	for i := range blocks {
		blocks[i].OrderHint = i
	}

	return blocks, skipped
}

// medianBlockHeight returns the median height across blocks.
func medianBlockHeight(blocks []TextBlock) float64 {
	heights := make([]float64, len(blocks))
	for i, b := range blocks {
		heights[i] = b.BBox.Height()
	}
	return median(heights)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
