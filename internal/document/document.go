// Package document extracts plain text from uploaded resume files.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

var (
	ErrLegacyWord      = errors.New("Legacy .doc files are not supported. Please save your document as .docx and try again.")
	ErrUnsupportedType = errors.New("Unsupported file type. Please upload a PDF, DOCX, or TXT file.")
)

// Kind is a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindDOC  Kind = "doc"
	KindText Kind = "txt"
)

const docxBody = "word/document.xml"

// Detect decides the document kind from the file extension and, when the
// extension is unknown, from the content.
func Detect(filename string, data []byte) (Kind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	case ".doc":
		return KindDOC, nil
	case ".txt", ".text", ".md":
		return KindText, nil
	}

	mime := mimetype.Detect(data)
	switch {
	case mime.Is("application/pdf"):
		return KindPDF, nil
	case mime.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return KindDOCX, nil
	case mime.Is("application/msword"), mime.Is("application/x-ole-storage"):
		return KindDOC, nil
	}
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return KindText, nil
		}
	}

	return "", ErrUnsupportedType
}

// Parse returns the trimmed text content of the document.
func Parse(filename string, data []byte) (string, error) {
	kind, err := Detect(filename, data)
	if err != nil {
		return "", err
	}

	switch kind {
	case KindPDF:
		return parsePDF(data)
	case KindDOCX:
		return parseDOCX(data)
	case KindDOC:
		return "", ErrLegacyWord
	default:
		return string(data), nil
	}
}

func parsePDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF file: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to parse PDF page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

func parseDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse DOCX file, make sure the file is not corrupted: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBody, err)
		}
		defer rc.Close()

		text, err := docxText(rc)
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX file, make sure the file is not corrupted: %w", err)
		}
		return strings.TrimSpace(text), nil
	}

	return "", fmt.Errorf("failed to parse DOCX file: %s is missing", docxBody)
}

// docxText collects w:t runs, turning paragraphs into lines.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
}
