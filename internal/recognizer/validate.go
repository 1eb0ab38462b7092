package recognizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ValidateFileRequest asks for a pre-flight check of a source PDF before
// any per-page work is dispatched for it.
type ValidateFileRequest struct {
	Path        string
	MaxFileSize int64
}

// ValidateFileResult reports whether the file is a readable PDF and how
// many pages a recognizer run would produce.
type ValidateFileResult struct {
	Path      string `json:"path"`
	Valid     bool   `json:"valid"`
	PageCount int    `json:"page_count"`
	Size      int64  `json:"size"`
	Message   string `json:"message,omitempty"`
}

// ValidateFile checks that the path points to a readable, size-bounded PDF
// and determines its page count. Validation failures are reported in the
// result, not as processing errors.
func ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{Path: req.Path}

	if req.Path == "" {
		result.Message = "path cannot be empty"
		return result, nil
	}

	info, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		result.Message = fmt.Sprintf("file does not exist: %s", req.Path)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		result.Message = fmt.Sprintf("path is a directory, not a file: %s", req.Path)
		return result, nil
	}
	result.Size = info.Size()

	if !strings.HasSuffix(strings.ToLower(req.Path), ".pdf") {
		result.Message = "file does not have a .pdf extension"
		return result, nil
	}
	if req.MaxFileSize > 0 && info.Size() > req.MaxFileSize {
		result.Message = fmt.Sprintf("file size %d exceeds maximum %d", info.Size(), req.MaxFileSize)
		return result, nil
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		result.Message = fmt.Sprintf("not a readable PDF: %v", err)
		return result, nil
	}
	if err := ctx.EnsurePageCount(); err != nil {
		result.Message = fmt.Sprintf("failed to determine page count: %v", err)
		return result, nil
	}

	result.Valid = true
	result.PageCount = ctx.PageCount
	return result, nil
}
