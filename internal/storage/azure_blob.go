package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

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

// NewAzureBlobArchive creates a new Azure Blob Storage archive
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

// Store uploads an artifact, prefixed with the year and month like the local
// archive, and returns the blob name.
func (a *AzureBlobArchive) Store(ctx context.Context, name string, contentType string, data io.Reader) (string, int64, error) {
	now := time.Now().UTC()
	blobName := fmt.Sprintf("%s/%s/%s", now.Format("2006"), now.Format("01"), name)

	uploadOptions := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	reader := &countingReader{r: data}

	_, err := a.client.UploadStream(ctx, a.containerName, blobName, reader, uploadOptions)
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	a.logger.Info("artifact archived",
		zap.String("blobName", blobName),
		zap.String("container", a.containerName),
		zap.String("contentType", contentType),
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

// Open downloads an archived artifact
func (a *AzureBlobArchive) Open(ctx context.Context, archivePath string) (io.ReadCloser, error) {
	resp, err := a.client.DownloadStream(ctx, a.containerName, archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	return resp.Body, nil
}

// Remove deletes an archived artifact. Removing a missing artifact is a
// no-op.
func (a *AzureBlobArchive) Remove(ctx context.Context, archivePath string) error {
	_, err := a.client.DeleteBlob(ctx, a.containerName, archivePath, nil)
	if err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") {
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}
