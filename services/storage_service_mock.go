package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MockStorage is an in-memory ObjectStorage for testing
type MockStorage struct {
	objects map[string][]byte // map of bucket/key to content
	mu      sync.RWMutex

	// FailUploads makes every Upload fail
	FailUploads bool
}

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		objects: make(map[string][]byte),
	}
}

// Upload simulates storing an object
func (m *MockStorage) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	if m.FailUploads {
		return "", fmt.Errorf("mock upload failure")
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.objects[bucket+"/"+key] = content
	m.mu.Unlock()

	return key, nil
}

// CreateSignedURL simulates presigning an existing object
func (m *MockStorage) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, exists := m.objects[bucket+"/"+path]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock storage: %s", path)
	}

	return fmt.Sprintf("https://%s.s3.us-east-1.amazonaws.com/%s?X-Amz-Expires=%d&mock=true", bucket, path, int(ttl.Seconds())), nil
}

// Remove simulates deleting objects
func (m *MockStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	m.mu.Lock()
	for _, p := range paths {
		delete(m.objects, bucket+"/"+p)
	}
	m.mu.Unlock()
	return nil
}

// Exists checks if an object exists in mock storage
func (m *MockStorage) Exists(bucket, path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.objects[bucket+"/"+path]
	return exists
}

// Objects returns a copy of all stored objects (for testing assertions)
func (m *MockStorage) Objects() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := make(map[string][]byte, len(m.objects))
	for k, v := range m.objects {
		objects[k] = v
	}
	return objects
}

// Clear removes all objects from mock storage
func (m *MockStorage) Clear() {
	m.mu.Lock()
	m.objects = make(map[string][]byte)
	m.mu.Unlock()
}
