package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error)
}

// uploadAPI is the part of the Cloudinary upload API we use.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader uploads car images into a Cloudinary folder.
type CloudinaryUploader struct {
	upload uploadAPI
	folder string
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{upload: &cld.Upload, folder: folder}, nil
}

// UploadImage uploads the file under folder/publicID and returns its HTTPS URL.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error) {
	result, err := u.upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   u.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("upload image: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload image: no URL returned")
	}
	return result.SecureURL, nil
}
