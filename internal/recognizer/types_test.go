package recognizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Validate(t *testing.T) {
	doc := &Document{Pages: []PageInput{{PageIndex: 0}, {PageIndex: 1}}}
	assert.NoError(t, doc.Validate())

	doc = &Document{Pages: []PageInput{{PageIndex: 0}, {PageIndex: 0}}}
	err := doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate page index")

	doc = &Document{Pages: []PageInput{{PageIndex: -1}}}
	err = doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page index")
}

func TestDocument_SortedPages(t *testing.T) {
	doc := &Document{Pages: []PageInput{{PageIndex: 2}, {PageIndex: 0}, {PageIndex: 1}}}

	pages := doc.SortedPages()
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i, p.PageIndex)
	}

	// The original slice is untouched.
	assert.Equal(t, 2, doc.Pages[0].PageIndex)
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	content := `{
		"source": "scan-001",
		"pages": [
			{
				"page_index": 0,
				"blocks": [
					{"text": "이름:", "bbox": [0.1, 0.1, 0.3, 0.12], "confidence": 0.93}
				],
				"tables": [
					{"bbox": [0.1, 0.3, 0.9, 0.5], "rows": [["이름", "생년월일"]]}
				]
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "scan-001", doc.Source)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, "이름:", page.Blocks[0].Text)
	assert.Equal(t, [4]float64{0.1, 0.1, 0.3, 0.12}, page.Blocks[0].BBox)
	assert.Equal(t, 0.93, page.Blocks[0].Confidence)

	require.Len(t, page.Tables, 1)
	assert.Equal(t, [][]string{{"이름", "생년월일"}}, page.Tables[0].Rows)
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadDocument_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadDocument(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadDocument_DuplicatePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	content := `{"pages":[{"page_index":0},{"page_index":0}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadDocument(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recognizer output")
}
