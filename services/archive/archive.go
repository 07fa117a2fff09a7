package archive

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Archiver keeps a copy of an uploaded source spreadsheet.
type Archiver interface {
	// Archive stores data under name and returns a retrievable reference.
	Archive(ctx context.Context, batchID, name string, data []byte) (string, error)
}

// CloudinaryArchiver uploads spreadsheets to Cloudinary as raw assets.
type CloudinaryArchiver struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryArchiver creates a CloudinaryArchiver from account credentials.
func NewCloudinaryArchiver(cloudName, apiKey, apiSecret, folder string, logger *zap.Logger) (*CloudinaryArchiver, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to initialize cloudinary: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("cloudinary archive enabled", zap.String("cloud", cloudName), zap.String("folder", folder))
	return &CloudinaryArchiver{cld: cld, folder: folder, logger: logger}, nil
}

// Archive uploads data into <folder>/<batchID> and returns the secure URL.
func (a *CloudinaryArchiver) Archive(ctx context.Context, batchID, name string, data []byte) (string, error) {
	params := uploader.UploadParams{
		Folder:       strings.Trim(a.folder+"/"+batchID, "/"),
		PublicID:     PublicID(name),
		ResourceType: "raw",
	}
	result, err := a.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return "", fmt.Errorf("archive: failed to upload %s: %w", name, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("archive: upload of %s rejected: %s", name, result.Error.Message)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("archive: no public ID returned for %s", name)
	}
	a.logger.Info("source archived", zap.String("file", name), zap.String("publicId", result.PublicID))
	return result.SecureURL, nil
}

// PublicID keeps the base name and extension so raw downloads stay usable.
func PublicID(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '?', '&', '#', '%', '<', '>':
			return '_'
		}
		return r
	}, base)
}
