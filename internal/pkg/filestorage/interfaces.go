package filestorage

import (
	"context"
	"mime/multipart"
)

// FileStorage stores uploaded files and hands back publicly reachable URLs.
// Implementations: S3Storage (cloud image host) and LocalStorage (development).
type FileStorage interface {
	// SaveFile stores the uploaded file under the given subdirectory/prefix
	// and returns the URL it is served from.
	SaveFile(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing file
	// is not an error.
	DeleteFile(ctx context.Context, fileURL string) error
}
