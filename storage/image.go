package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	DefaultFolder     = "projects"
	RecommendedWidth  = 3840
	RecommendedHeight = 2160
	DefaultMaxBytes   = 5 << 20
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrInvalidImage    = errors.New("invalid image file")
)

// AcceptedTypes is the upload allow-list.
var AcceptedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// ImageInfo describes a validated upload.
type ImageInfo struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
	// Warning is set when the image is accepted but not at the recommended size.
	Warning string
}

// ValidateImage sniffs data, enforces the allow-list and size ceiling and
// decodes the dimensions.
func ValidateImage(data []byte, maxBytes int64) (ImageInfo, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return ImageInfo{}, fmt.Errorf("%w: file size must be less than %dMB", ErrTooLarge, maxBytes>>20)
	}
	mt := mimetype.Detect(data)
	if !accepted(mt) {
		return ImageInfo{}, fmt.Errorf("%w: %s (accepted: %s)", ErrUnsupportedType, mt.String(), strings.Join(AcceptedTypes, ", "))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	info := ImageInfo{
		ContentType: baseType(mt),
		Ext:         mt.Extension(),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}
	if cfg.Width != RecommendedWidth || cfg.Height != RecommendedHeight {
		info.Warning = fmt.Sprintf("Recommended dimensions are %dx%dpx. Your image is %dx%dpx.",
			RecommendedWidth, RecommendedHeight, cfg.Width, cfg.Height)
	}
	return info, nil
}

func baseType(mt *mimetype.MIME) string {
	t, _, _ := strings.Cut(mt.String(), ";")
	return t
}

func accepted(mt *mimetype.MIME) bool {
	for _, t := range AcceptedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

// ObjectName returns a unique key for an upload: folder/<random>-<unix ms><ext>.
func ObjectName(folder, ext string, now time.Time) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		folder = DefaultFolder
	}
	return fmt.Sprintf("%s/%s-%d%s", folder, uuid.NewString(), now.UnixMilli(), ext)
}

// Upload is the result of a stored image.
type Upload struct {
	Key     string `json:"key"`
	URL     string `json:"url"`
	Warning string `json:"warning,omitempty"`
}

// Uploader validates images and writes them to an ObjectStore.
type Uploader struct {
	store    ObjectStore
	maxBytes int64
}

func NewUploader(store ObjectStore, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploader{store: store, maxBytes: maxBytes}
}

func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Upload stores data under folder and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, folder string, data []byte) (Upload, error) {
	info, err := ValidateImage(data, u.maxBytes)
	if err != nil {
		return Upload{}, err
	}
	key := ObjectName(folder, info.Ext, time.Now())
	if err := u.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), info.ContentType); err != nil {
		return Upload{}, err
	}
	return Upload{Key: key, URL: u.store.PublicURL(key), Warning: info.Warning}, nil
}
