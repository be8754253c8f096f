// Package reader loads input documents from local files and Google Docs.
package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates an input file type the loader cannot read.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// LoadDocument reads an input document into raw text. Word files are
// extracted; everything else is treated as plain UTF-8 text.
func LoadDocument(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return ReadWordFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
