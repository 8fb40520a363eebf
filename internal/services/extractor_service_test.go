package services

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	s := NewExtractorService(1024)

	text, err := s.Extract([]byte("\ufeff  Hello world\n"), "poem.TXT")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestExtractDocx(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First line</w:t></w:r><w:r><w:t xml:space="preserve"> continues</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t><w:tab/><w:t>line</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := NewExtractorService(0).Extract(buildDocx(t, doc), "essay.docx")
	require.NoError(t, err)
	assert.Equal(t, "First line continues\nSecond\tline", text)
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	_, err := NewExtractorService(0).Extract([]byte("%PDF"), "paper.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractRejectsBrokenDocx(t *testing.T) {
	_, err := NewExtractorService(0).Extract([]byte("not a zip"), "essay.docx")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}
