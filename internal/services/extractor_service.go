// internal/services/extractor_service.go
package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var allowedWorkTypes = []string{".txt", ".docx"}

// ExtractorService turns uploaded documents into plain text.
type ExtractorService struct {
	maxBytes int64
}

func NewExtractorService(maxBytes int64) *ExtractorService {
	return &ExtractorService{maxBytes: maxBytes}
}

// ExtractUpload validates an uploaded file's size and type and returns its
// text.
func (s *ExtractorService) ExtractUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, header.Size, s.maxBytes)
	}

	reader := io.Reader(file)
	if s.maxBytes > 0 {
		reader = io.LimitReader(file, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	return s.Extract(data, header.Filename)
}

// Extract returns the text of a .txt or .docx document.
func (s *ExtractorService) Extract(data []byte, fileName string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text file is not valid UTF-8")
		}
		return strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff")), nil
	case ".docx":
		text, err := extractDocx(data)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from .docx file: %w", err)
		}
		return strings.TrimSpace(text), nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedFormat, ext, strings.Join(allowedWorkTypes, ", "))
	}
}

// extractDocx reads the text runs of word/document.xml. Paragraphs and
// breaks become newlines.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(rc)
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
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

	return b.String(), nil
}
