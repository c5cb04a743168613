package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"

	"moco-web/config"
)

// Uploader stores an image and returns its permanent secure URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// CloudinaryUploader uploads images to Cloudinary under a fixed folder
// namespace with automatic resource-type detection.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg *config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}

	return &CloudinaryUploader{
		cld:    cld,
		folder: cfg.Folder,
	}, nil
}

// Upload submits the bytes as a base64 data URI and returns the secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	result, err := u.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "auto",
	})
	if err != nil {
		log.Error().Err(err).Msg("Cloudinary upload failed")
		return "", err
	}
	if result.Error.Message != "" {
		log.Error().Str("message", result.Error.Message).Msg("Cloudinary upload rejected")
		return "", errors.New(result.Error.Message)
	}

	return result.SecureURL, nil
}
