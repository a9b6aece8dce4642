package schema

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Repository defines the interface for loading schema documents.
// This interface enables dependency injection and makes testing easier.
type Repository interface {
	// Load reads and decodes a schema document from a file
	Load(path string) (*Node, error)
}

// FileRepository implements Repository for file-based schema documents.
type FileRepository struct{}

// NewFileRepository creates a new file-based schema repository
func NewFileRepository() *FileRepository {
	return &FileRepository{}
}

// Load reads and decodes a schema document from a JSON file
func (r *FileRepository) Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a schema document from raw JSON
func Parse(data []byte) (*Node, error) {
	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return &node, nil
}

// Default instance for package-level functions
var defaultRepository = NewFileRepository()

// LoadFile reads a schema document using the default repository.
func LoadFile(path string) (*Node, error) {
	return defaultRepository.Load(path)
}

// Compile-time verification that FileRepository implements Repository
var _ Repository = (*FileRepository)(nil)
