package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Document is one loaded unit of text: a whole text file or a single PDF page
type Document struct {
	Source string // base file name
	Page   int    // 1-based PDF page, 0 for text files
	Text   string
}

// LoadDocuments reads every .pdf, .txt and .md file in dir, sorted by name.
// PDFs yield one document per page with text. A missing directory yields no
// documents; a PDF that cannot be parsed is logged and skipped.
func LoadDocuments(dir string, log *zap.Logger) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt", ".md":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var docs []Document
	for _, name := range names {
		path := filepath.Join(dir, name)

		if strings.EqualFold(filepath.Ext(name), ".pdf") {
			pages, err := loadPDF(path)
			if err != nil {
				log.Error("Error loading PDF", zap.String("file", name), zap.Error(err))
				continue
			}
			log.Info("Loaded PDF", zap.String("file", name), zap.Int("pages", len(pages)))
			docs = append(docs, pages...)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		docs = append(docs, Document{Source: name, Text: string(data)})
	}
	return docs, nil
}

// loadPDF extracts the plain text of every non-empty page
func loadPDF(path string) (docs []Document, err error) {
	// the parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			docs, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{Source: name, Page: i, Text: text})
	}
	return docs, nil
}

// ChunkDocuments splits documents into numbered chunks. Numbering starts at 1 per document.
func ChunkDocuments(docs []Document, splitter Splitter) ([]Chunk, error) {
	var chunks []Chunk
	for _, d := range docs {
		texts, err := splitter.Split(d.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", d.Source, err)
		}
		for i, text := range texts {
			chunks = append(chunks, Chunk{Source: d.Source, Page: d.Page, Index: i + 1, Text: text})
		}
	}
	return chunks, nil
}
