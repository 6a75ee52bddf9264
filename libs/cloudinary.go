package libs

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"pc-store/config"
	"pc-store/utils"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrCloudinaryNotConfigured = errors.New("cloudinary credentials not configured")

type CloudinaryService struct {
	cld     *cloudinary.Cloudinary
	maxSize int64
}

// NewCloudinaryService prefers the separate CLOUDINARY_* credentials and
// falls back to CLOUDINARY_URL.
func NewCloudinaryService(cfg *config.Config) (*CloudinaryService, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.CloudinaryName != "" && cfg.CloudinaryKey != "" && cfg.CloudinarySec != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySec)
	case cfg.CloudinaryURL != "":
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
	default:
		return nil, ErrCloudinaryNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld, maxSize: cfg.MaxUploadSize}, nil
}

func publicID(folder, filename string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s/%d_%s", folder, now.Unix(), base)
}

func (s *CloudinaryService) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, string, error) {
	if err := utils.ValidateImage(fileHeader, s.maxSize); err != nil {
		return "", "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID(folder, fileHeader.Filename, time.Now()),
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", "", fmt.Errorf("cloudinary upload rejected: %s", result.Error.Message)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	return url, result.PublicID, nil
}

func (s *CloudinaryService) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}
