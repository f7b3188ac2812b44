package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/utils"
)

// DocumentService handles order documents: upload, signed download links and deletion
type DocumentService interface {
	// Upload validates and stores a file for an order and returns its document record
	Upload(ctx context.Context, orderID string, fileHeader *multipart.FileHeader, source models.DocumentSource) (models.Document, error)

	// SignedURL issues a time-limited link for a stored document path
	SignedURL(ctx context.Context, path string) (string, error)

	// Delete removes a stored document
	Delete(ctx context.Context, path string) error
}

// StorageDocumentService implements DocumentService on an ObjectStorage bucket
type StorageDocumentService struct {
	storage ObjectStorage
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

var documentServiceInstance DocumentService

// NewDocumentService creates a document service storing into bucket
func NewDocumentService(storage ObjectStorage, bucket string, ttl time.Duration) *StorageDocumentService {
	return &StorageDocumentService{
		storage: storage,
		bucket:  bucket,
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetDocumentService returns the initialized document service instance
func GetDocumentService() DocumentService {
	return documentServiceInstance
}

// SetDocumentService sets the document service instance (primarily for testing)
func SetDocumentService(service DocumentService) {
	documentServiceInstance = service
}

// DocumentKey is the storage key of an uploaded file: orders/{orderID}/{uuid}_{filename}
func DocumentKey(orderID, filename string) string {
	return fmt.Sprintf("orders/%s/%s_%s", orderID, uuid.NewString(), utils.SanitizeFilename(filename))
}

// Upload validates the file and puts it into storage
func (s *StorageDocumentService) Upload(ctx context.Context, orderID string, fileHeader *multipart.FileHeader, source models.DocumentSource) (models.Document, error) {
	if err := utils.ValidateDocumentFile(fileHeader); err != nil {
		return models.Document{}, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	path, err := s.storage.Upload(ctx, s.bucket, DocumentKey(orderID, fileHeader.Filename), file, utils.ContentType(fileHeader.Filename))
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to upload document: %w", err)
	}

	if source != models.SourceClient {
		source = models.SourceCompany
	}
	return models.Document{
		Name:        fileHeader.Filename,
		Type:        utils.DocumentType(fileHeader.Filename),
		LastUpdated: string(models.NewDate(s.now())),
		Path:        path,
		Source:      source,
	}, nil
}

// SignedURL generates a presigned URL valid for the configured TTL
func (s *StorageDocumentService) SignedURL(ctx context.Context, path string) (string, error) {
	url, err := s.storage.CreateSignedURL(ctx, s.bucket, path, s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to generate document URL: %w", err)
	}
	return url, nil
}

// Delete removes the file at path
func (s *StorageDocumentService) Delete(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := s.storage.Remove(ctx, s.bucket, []string{path}); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
