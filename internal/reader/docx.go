package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// A .docx file is a zip archive; the document text lives in
// word/document.xml as WordprocessingML.

type docxText struct {
	Value string `xml:",chardata"`
}

type docxRun struct {
	Texts []docxText `xml:"t"`
}

type docxHyperlink struct {
	Runs []docxRun `xml:"r"`
}

type docxParagraph struct {
	Runs       []docxRun       `xml:"r"`
	Hyperlinks []docxHyperlink `xml:"hyperlink"`
}

func (p docxParagraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Texts {
			b.WriteString(t.Value)
		}
	}
	for _, h := range p.Hyperlinks {
		for _, r := range h.Runs {
			for _, t := range r.Texts {
				b.WriteString(t.Value)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxDocument struct {
	Body docxBody `xml:"body"`
}

// ReadWordFile extracts text from a Word (.docx) file: non-empty paragraphs
// first, then table rows with cells tab-joined.
func ReadWordFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %s", path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return "", fmt.Errorf("%w: %s, only .docx is supported", ErrUnsupportedFormat, filepath.Ext(path))
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer archive.Close()

	var raw []byte
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			raw, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read document.xml: %w", err)
			}
			break
		}
	}
	if raw == nil {
		return "", fmt.Errorf("%w: no word/document.xml in archive", ErrUnsupportedFormat)
	}

	return extractDocxText(raw)
}

func extractDocxText(raw []byte) (string, error) {
	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("failed to parse document.xml: %w", err)
	}

	var parts []string

	for _, p := range doc.Body.Paragraphs {
		if text := p.text(); text != "" {
			parts = append(parts, text)
		}
	}

	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var cellParts []string
				for _, p := range cell.Paragraphs {
					if text := p.text(); text != "" {
						cellParts = append(cellParts, text)
					}
				}
				if len(cellParts) > 0 {
					cells = append(cells, strings.Join(cellParts, " "))
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, "\t"))
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}
