package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a mock multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	// Create a buffer to write our multipart form
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// Create form file
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	// Parse the multipart form
	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)

	if len(form.File["file"]) > 0 {
		fileHeader := form.File["file"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateDocumentFile_Success(t *testing.T) {
	for _, name := range []string{"po.pdf", "TechPack.XLSX", "sketch.jpeg", "sizes.csv", "spec.docx"} {
		t.Run(name, func(t *testing.T) {
			content := []byte("fake content")
			fileHeader := createTestFileHeader(name, int64(len(content)), content)
			require.NotNil(t, fileHeader)
			assert.NoError(t, ValidateDocumentFile(fileHeader))
		})
	}
}

func TestValidateDocumentFile_FileTooLarge(t *testing.T) {
	// Test with file exceeding size limit (11MB)
	content := []byte("fake pdf content")
	fileHeader := createTestFileHeader("large.pdf", 11*1024*1024, content)
	require.NotNil(t, fileHeader)

	err := ValidateDocumentFile(fileHeader)
	assert.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
	assert.Contains(t, fileErr.Message, "File size exceeds maximum allowed size")
}

func TestValidateDocumentFile_InvalidFormat(t *testing.T) {
	content := []byte("#!/bin/sh")
	fileHeader := createTestFileHeader("run.sh", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	err := ValidateDocumentFile(fileHeader)
	assert.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
	assert.Contains(t, fileErr.Message, ".pdf")
}

func TestValidateDocumentFile_Empty(t *testing.T) {
	fileHeader := createTestFileHeader("empty.pdf", 0, []byte("x"))
	require.NotNil(t, fileHeader)

	err := ValidateDocumentFile(fileHeader)
	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok)
	assert.Equal(t, "EMPTY_FILE", fileErr.Code)

	err = ValidateDocumentFile(nil)
	fileErr, ok = err.(*FileUploadError)
	require.True(t, ok)
	assert.Equal(t, "NO_FILE", fileErr.Code)
}

func TestDocumentType(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"po.pdf", "PDF"},
		{"sketch.PNG", "Image"},
		{"costing.xls", "Spreadsheet"},
		{"letter.doc", "Document"},
		{"archive.zip", "File"},
		{"noext", "File"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocumentType(tt.name))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("a.pdf"))
	assert.Equal(t, "image/jpeg", ContentType("a.JPG"))
	assert.Equal(t, "application/octet-stream", ContentType("a.bin"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Purchase Order.pdf", "Purchase_Order.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\tech pack.xlsx`, "tech_pack.xlsx"},
		{"ä.pdf", ".pdf"},
		{"%%%", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}
