// Package storage archives the offer letters sent to customers. Every
// approved quotation that leaves the system by e-mail is also written to the
// archive keyed by its quote ID, so the exact text of an offer can be
// retrieved later.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/config"
)

// Archive defines the interface for offer letter storage operations
type Archive interface {
	Put(ctx context.Context, quoteID string, contentType string, data io.Reader) (string, int64, error)
	Get(ctx context.Context, archivePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, archivePath string) error
}

// NewArchive creates a new archive instance based on configuration.
// For local mode, letters are stored on the local filesystem.
// For cloud/azure mode, letters are stored in Azure Blob Storage.
func NewArchive(cfg *config.StorageConfig, logger *zap.Logger) (Archive, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalArchive(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobArchive(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// letterPath derives the archive path for a quote. Quote IDs carry the year
// (Q-2026-00042), which becomes the directory level.
func letterPath(quoteID string) string {
	year := "unknown"
	parts := strings.Split(quoteID, "-")
	if len(parts) == 3 {
		year = parts[1]
	}
	return filepath.Join("offers", year, quoteID+".txt")
}

// LocalArchive implements Archive on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new local archive instance
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalArchive{
		basePath: basePath,
	}, nil
}

// Put writes an offer letter to the local archive. A letter re-sent for the
// same quote overwrites the previous copy.
func (s *LocalArchive) Put(ctx context.Context, quoteID string, contentType string, data io.Reader) (string, int64, error) {
	archivePath := letterPath(quoteID)
	fullPath := filepath.Join(s.basePath, archivePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Cleanup on error
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return archivePath, size, nil
}

// Get reads an offer letter from the local archive
func (s *LocalArchive) Get(ctx context.Context, archivePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, archivePath)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("offer letter not found: %s", archivePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes an offer letter from the local archive
func (s *LocalArchive) Delete(ctx context.Context, archivePath string) error {
	fullPath := filepath.Join(s.basePath, archivePath)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
