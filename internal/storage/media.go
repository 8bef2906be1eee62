package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxImageBytes bounds article image uploads.
	MaxImageBytes = 5 << 20
	// URLExpiry is how long a returned media link stays valid.
	URLExpiry   = 7 * 24 * time.Hour
	SitemapKey  = "sitemap.xml"
	mediaPrefix = "media/"
	sniffLength = 512
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrEmpty           = errors.New("empty upload")
)

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Object describes a stored upload.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// UploadImage stores an article image under media/YYYY/MM/<uuid>.<ext>. The content
// type is sniffed from the bytes; the client-declared type is ignored. SVG is rejected.
func UploadImage(ctx context.Context, store ObjectStore, r io.Reader, now time.Time) (*Object, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}
	head := data
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	ct := http.DetectContentType(head)
	ext, ok := imageExt[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	key := fmt.Sprintf("%s%s/%s%s", mediaPrefix, now.UTC().Format("2006/01"), uuid.NewString(), ext)
	if err := store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), ct); err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}
	u, err := store.PresignedURL(ctx, key, URLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &Object{Key: key, URL: u, ContentType: ct, Size: int64(len(data))}, nil
}

// PutSitemap uploads a rendered sitemap to the bucket root.
func PutSitemap(ctx context.Context, store ObjectStore, xml []byte) error {
	if !strings.HasPrefix(strings.TrimSpace(string(xml)), "<?xml") {
		return errors.New("sitemap: not an XML document")
	}
	return store.Put(ctx, SitemapKey, bytes.NewReader(xml), int64(len(xml)), "application/xml")
}
