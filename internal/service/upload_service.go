package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/30secgamer/drivingbackend/internal/config"
	"github.com/30secgamer/drivingbackend/internal/model"
)

// Sentinel errors for attachment handling.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrStorageUnavailable  = errors.New("object store unavailable")
)

// Allowed MIME types per attachment kind. Photos must be images; license
// files may also arrive as scanned PDFs.
var allowedMIMETypes = map[model.AttachmentKind]map[string]string{
	model.AttachmentPhoto: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
	model.AttachmentLicense: {
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"application/pdf": ".pdf",
	},
}

// Object key prefixes per attachment kind.
var kindPrefixes = map[model.AttachmentKind]string{
	model.AttachmentPhoto:   "driving_school/photos",
	model.AttachmentLicense: "driving_school/licenses",
}

// objectPutter is the slice of the MinIO client the uploader needs.
type objectPutter interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// UploadService turns incoming binaries into object-store references.
// Files are staged on local disk first; a staging copy never survives the
// request that created it.
type UploadService struct {
	store objectPutter
	cfg   *config.Config
}

// NewUploadService creates a new UploadService.
func NewUploadService(store objectPutter, cfg *config.Config) *UploadService {
	return &UploadService{store: store, cfg: cfg}
}

// Stage validates an uploaded file and writes it to the staging directory
// under a fresh UUID name, returning the staging path.
func (s *UploadService) Stage(file multipart.File, header *multipart.FileHeader, kind model.AttachmentKind) (string, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[kind][contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.StagingDir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	stagingPath := filepath.Join(s.cfg.StagingDir, uuid.New().String()+ext)

	dst, err := os.Create(stagingPath)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(stagingPath)
		return "", fmt.Errorf("write staging file: %w", err)
	}

	return stagingPath, nil
}

// Upload pushes a staged file to the object store under the kind's
// namespace and returns the permanent URL of the stored object. The staging
// copy is removed whether the upload succeeds or fails.
func (s *UploadService) Upload(ctx context.Context, kind model.AttachmentKind, stagingPath string) (string, error) {
	defer os.Remove(stagingPath)

	prefix, ok := kindPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("unknown attachment kind %q", kind)
	}

	objectName := prefix + "/" + filepath.Base(stagingPath)
	opts := minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(stagingPath)),
	}

	if _, err := s.store.FPutObject(ctx, s.cfg.StorageBucket, objectName, stagingPath, opts); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return s.cfg.StoragePublicURL + "/" + s.cfg.StorageBucket + "/" + objectName, nil
}

// Discard removes staging files that were never uploaded, e.g. when the
// enclosing operation failed validation first. Missing files are fine.
func (s *UploadService) Discard(stagingPaths ...string) {
	for _, p := range stagingPaths {
		if p != "" {
			os.Remove(p)
		}
	}
}
