// Package storage keeps product images, on local disk or in S3.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/amazighishop/shop_api/internal/utils"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 4 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore saves images and returns the relative path recorded on the
// product, e.g. "produits/3f1c....png".
type ImageStore interface {
	Save(ctx context.Context, dir string, data []byte) (string, error)
	Delete(ctx context.Context, relPath string) error
	URL(relPath string) string
}

// Inspect sniffs data and returns its content type and file extension.
// Anything other than a jpeg, png, webp or gif image, or a file larger than
// MaxImageSize, yields utils.ErrInvalidImage.
func Inspect(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 || len(data) > MaxImageSize {
		return "", "", utils.ErrInvalidImage
	}
	mt := mimetype.Detect(data)
	for ct, e := range allowedTypes {
		if mt.Is(ct) {
			return ct, e, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", utils.ErrInvalidImage, mt.String())
}

func objectName(dir, ext string) string {
	return path.Join(strings.Trim(dir, "/"), uuid.New().String()+ext)
}

// cleanRelPath rejects paths escaping the store root.
func cleanRelPath(relPath string) (string, error) {
	p := path.Clean("/" + relPath)
	if p == "/" {
		return "", fmt.Errorf("empty image path")
	}
	return strings.TrimPrefix(p, "/"), nil
}
