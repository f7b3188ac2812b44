package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// documentTypes maps allowed extensions to the type label stored on the document record
var documentTypes = map[string]string{
	".pdf":  "PDF",
	".png":  "Image",
	".jpg":  "Image",
	".jpeg": "Image",
	".xls":  "Spreadsheet",
	".xlsx": "Spreadsheet",
	".csv":  "Spreadsheet",
	".doc":  "Document",
	".docx": "Document",
}

// contentTypes are the upload content types per extension
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// AllowedExtensions lists the accepted document extensions, sorted
func AllowedExtensions() []string {
	exts := make([]string, 0, len(documentTypes))
	for ext := range documentTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ValidateDocumentFile validates the uploaded file format and size
func ValidateDocumentFile(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return &FileUploadError{
			Code:    "NO_FILE",
			Message: "No file was uploaded",
		}
	}

	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}
	if fileHeader.Size == 0 {
		return &FileUploadError{
			Code:    "EMPTY_FILE",
			Message: "File is empty",
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := documentTypes[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedExtensions(), ", ")),
		}
	}

	return nil
}

// DocumentType returns the display type of a file name, "File" when unknown
func DocumentType(filename string) string {
	if t, ok := documentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return "File"
}

// ContentType returns the upload content type of a file name
func ContentType(filename string) string {
	if t, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return "application/octet-stream"
}

// SanitizeFilename strips directories and characters that do not belong in a storage key
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || b.String() == "." || b.String() == ".." {
		return "file"
	}
	return b.String()
}
