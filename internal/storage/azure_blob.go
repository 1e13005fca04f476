package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"go.uber.org/zap"
)

// AzureBlobArchive implements Archive on Azure Blob Storage
type AzureBlobArchive struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewAzureBlobArchive creates a new Azure Blob Storage archive instance
func NewAzureBlobArchive(connectionString, containerName string, logger *zap.Logger) (*AzureBlobArchive, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	// Ensure container exists
	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage archive initialized",
		zap.String("container", containerName),
	)

	return &AzureBlobArchive{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Put uploads an offer letter to Azure Blob Storage. The blob name follows
// the same quote-keyed path scheme as the local archive.
func (s *AzureBlobArchive) Put(ctx context.Context, quoteID string, contentType string, data io.Reader) (string, int64, error) {
	blobName := letterPath(quoteID)

	uploadOptions := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	// Wrap data in counting reader to track size
	reader := &countingReader{r: data}

	_, err := s.client.UploadStream(ctx, s.containerName, blobName, reader, uploadOptions)
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("Offer letter archived to Azure Blob Storage",
		zap.String("blobName", blobName),
		zap.String("container", s.containerName),
		zap.Int64("size", reader.count),
	)

	return blobName, reader.count, nil
}

// countingReader wraps an io.Reader and counts the number of bytes read
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Get downloads an offer letter from Azure Blob Storage
func (s *AzureBlobArchive) Get(ctx context.Context, archivePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	return resp.Body, nil
}

// Delete removes an offer letter from Azure Blob Storage
func (s *AzureBlobArchive) Delete(ctx context.Context, archivePath string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, archivePath, nil)
	if err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") {
			s.logger.Debug("Blob already deleted or not found",
				zap.String("blobName", archivePath),
				zap.String("container", s.containerName),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}
