package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/config"
	"go.uber.org/zap"
)

// Archive keeps a copy of every generated export artifact (quotation PDFs,
// CSV dumps) so past documents can be re-downloaded after the in-memory
// response is gone.
type Archive interface {
	Store(ctx context.Context, name string, contentType string, data io.Reader) (string, int64, error)
	Open(ctx context.Context, archivePath string) (io.ReadCloser, error)
	Remove(ctx context.Context, archivePath string) error
}

// NewArchive creates an archive based on configuration. Local mode writes to
// the filesystem; azure mode writes to a blob container.
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

// LocalArchive implements Archive on the local filesystem. Artifacts are
// grouped by day to keep directories small.
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new local archive
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalArchive{
		basePath: basePath,
	}, nil
}

// Store writes an artifact under <base>/<YYYY>/<MM>/<name> and returns the
// archive path.
func (a *LocalArchive) Store(ctx context.Context, name string, contentType string, data io.Reader) (string, int64, error) {
	now := time.Now().UTC()
	archivePath := filepath.Join(now.Format("2006"), now.Format("01"), name)
	fullPath := filepath.Join(a.basePath, archivePath)

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
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return archivePath, size, nil
}

// Open reads an archived artifact back.
func (a *LocalArchive) Open(ctx context.Context, archivePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(a.basePath, archivePath)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", archivePath)
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}

	return file, nil
}

// Remove deletes an archived artifact. Removing a missing artifact is a
// no-op.
func (a *LocalArchive) Remove(ctx context.Context, archivePath string) error {
	fullPath := filepath.Join(a.basePath, archivePath)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove artifact: %w", err)
	}

	return nil
}
