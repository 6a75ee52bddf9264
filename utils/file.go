package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidImage = errors.New("invalid image")

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImage checks the extension and size of an uploaded image.
func ValidateImage(fileHeader *multipart.FileHeader, maxSize int64) error {
	if fileHeader == nil {
		return ErrInvalidImage
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidImage, maxSize)
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("%w: extension %q not allowed", ErrInvalidImage, ext)
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if len(name) > 120 {
		name = name[len(name)-120:]
	}
	return name
}

// LocalImageStore keeps uploads under Dir and serves them below URLPrefix.
type LocalImageStore struct {
	Dir       string
	URLPrefix string
	MaxSize   int64
}

func NewLocalImageStore(dir string, maxSize int64) *LocalImageStore {
	return &LocalImageStore{Dir: dir, URLPrefix: "/uploads", MaxSize: maxSize}
}

// Upload returns the public URL and the path relative to Dir, which doubles as
// the id passed to Delete.
func (s *LocalImageStore) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, string, error) {
	if err := ValidateImage(fileHeader, s.MaxSize); err != nil {
		return "", "", err
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	uploadPath := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(fileHeader.Filename))

	src, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(uploadPath, filename))
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("write file: %w", err)
	}

	rel := path.Join(folder, filename)
	return path.Join(s.URLPrefix, rel), rel, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	fullPath := filepath.Join(s.Dir, filepath.Clean("/"+id))
	if _, err := os.Stat(fullPath); err == nil {
		return os.Remove(fullPath)
	}
	return nil
}
