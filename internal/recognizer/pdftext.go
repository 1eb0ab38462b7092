package recognizer

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Nominal page size used to normalize born-digital PDF coordinates when the
// document does not declare one. Matches the US Letter assumption used for
// alignment detection elsewhere in the corpus.
const (
	nominalPageWidth  = 612.0
	nominalPageHeight = 792.0
)

// nativeTextConfidence is assigned to blocks read straight from the PDF
// content stream: the text is exact, not recognized.
const nativeTextConfidence = 1.0

// ExtractPDFText builds recognizer input from a born-digital PDF without
// running OCR. Each text row becomes one RawBlock with page-normalized,
// top-origin coordinates. Scanned PDFs yield few or no blocks; callers
// should fall back to the OCR collaborator in that case.
func ExtractPDFText(path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	doc := &Document{Source: path}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, PageInput{PageIndex: pageNum - 1})
			continue
		}

		input := PageInput{PageIndex: pageNum - 1}

		rows, err := page.GetTextByRow()
		if err != nil {
			input.Error = fmt.Sprintf("text extraction failed: %v", err)
			doc.Pages = append(doc.Pages, input)
			continue
		}

		for _, row := range rows {
			block, ok := rowToBlock(row)
			if ok {
				input.Blocks = append(input.Blocks, block)
			}
		}

		doc.Pages = append(doc.Pages, input)
	}

	return doc, nil
}

// rowToBlock merges one text row into a single block. PDF text coordinates
// are bottom-origin points; output is top-origin and page-normalized.
func rowToBlock(row *pdf.Row) (RawBlock, bool) {
	var sb strings.Builder
	minX := nominalPageWidth
	maxX := 0.0
	height := 12.0 // fallback when the row carries no font size

	for _, text := range row.Content {
		sb.WriteString(text.S)
		if text.X < minX {
			minX = text.X
		}
		if text.X+text.W > maxX {
			maxX = text.X + text.W
		}
		if text.FontSize > 0 {
			height = text.FontSize
		}
	}

	joined := strings.TrimSpace(sb.String())
	if joined == "" || maxX <= minX {
		return RawBlock{}, false
	}

	bottom := float64(row.Position)
	top := bottom + height

	return RawBlock{
		Text: joined,
		BBox: [4]float64{
			minX / nominalPageWidth,
			(nominalPageHeight - top) / nominalPageHeight,
			maxX / nominalPageWidth,
			(nominalPageHeight - bottom) / nominalPageHeight,
		},
		Confidence: nativeTextConfidence,
	}, true
}
