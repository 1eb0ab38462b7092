//go:build cgo

package recognizer

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Registered so image.DecodeConfig can size the common scan formats.
	_ "image/jpeg"
	_ "image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient turns page images into RawBlocks using the Tesseract OCR
// engine. It exists for local use and testing; production deployments feed
// the pipeline from a dedicated recognition service instead.
//
// Tesseract must be installed on the system. On macOS: brew install
// tesseract. On Ubuntu/Debian: apt-get install tesseract-ocr.
type TesseractClient struct {
	client *gosseract.Client
}

// NewTesseractClient creates a new OCR client. Close it when done.
func NewTesseractClient() (*TesseractClient, error) {
	return &TesseractClient{client: gosseract.NewClient()}, nil
}

// SetLanguage sets the recognition language(s), "+" separated (e.g.
// "kor+eng"). Default is "eng".
func (t *TesseractClient) SetLanguage(lang string) error {
	return t.client.SetLanguage(lang)
}

// Close releases OCR resources.
func (t *TesseractClient) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// RecognizePage performs OCR on image data (PNG or JPEG) and returns the
// recognized lines as a PageInput with page-normalized coordinates.
func (t *TesseractClient) RecognizePage(imageData []byte, pageIndex int) (PageInput, error) {
	page := PageInput{PageIndex: pageIndex}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return page, fmt.Errorf("failed to decode image dimensions: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return page, fmt.Errorf("image has empty dimensions")
	}

	if err := t.client.SetImageFromBytes(imageData); err != nil {
		return page, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return page, fmt.Errorf("OCR failed: %w", err)
	}

	w := float64(cfg.Width)
	h := float64(cfg.Height)
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		page.Blocks = append(page.Blocks, RawBlock{
			Text: text,
			BBox: [4]float64{
				float64(box.Box.Min.X) / w,
				float64(box.Box.Min.Y) / h,
				float64(box.Box.Max.X) / w,
				float64(box.Box.Max.Y) / h,
			},
			// Tesseract reports confidence on a 0-100 scale.
			Confidence: box.Confidence / 100.0,
		})
	}

	return page, nil
}
