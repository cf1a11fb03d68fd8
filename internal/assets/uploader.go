package assets

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IsLocalAsset reports whether uri is a locally-resident file reference that
// still needs uploading: a file:// URI or an absolute path, and not already
// an http(s) URL.
func IsLocalAsset(uri string) bool {
	if uri == "" {
		return false
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return false
	}
	if strings.HasPrefix(uri, "file://") {
		return true
	}
	return strings.HasPrefix(uri, "/") && !strings.HasPrefix(uri, "//")
}

// Uploader moves locally-resident assets into the object store and
// substitutes durable URLs. Every method is best-effort: an already-remote
// URL is returned unchanged, and any failure is logged and answered with the
// original URI so the caller can persist it and retry on a later save.
type Uploader struct {
	store ObjectStore
	log   *zap.Logger
}

// NewUploader creates an Uploader.
func NewUploader(store ObjectStore, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{store: store, log: log}
}

// StoreBanner uploads a store banner to stores/{ownerID}/banner.jpg.
func (u *Uploader) StoreBanner(ownerID, uri string) string {
	return u.upload(uri, fmt.Sprintf("stores/%s/banner.jpg", ownerID), "image/jpeg")
}

// StoreLogo uploads a store logo to stores/{ownerID}/logo.jpg.
func (u *Uploader) StoreLogo(ownerID, uri string) string {
	return u.upload(uri, fmt.Sprintf("stores/%s/logo.jpg", ownerID), "image/jpeg")
}

// ProductImage uploads a product image to products/{ownerID}/{productID}.jpg.
// productID may be empty for a not-yet-created product; a temp id is used and
// the path will differ from later uploads for the same product. Accepted.
func (u *Uploader) ProductImage(ownerID, productID, uri string) string {
	return u.upload(uri, fmt.Sprintf("products/%s/%s.jpg", ownerID, orTempID(productID)), "image/jpeg")
}

// ProductVideo uploads a product preview video to
// products/{ownerID}/{productID}.mp4.
func (u *Uploader) ProductVideo(ownerID, productID, uri string) string {
	return u.upload(uri, fmt.Sprintf("products/%s/%s.mp4", ownerID, orTempID(productID)), "video/mp4")
}

func (u *Uploader) upload(uri, path, contentType string) string {
	if !IsLocalAsset(uri) {
		return uri
	}

	data, err := os.ReadFile(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		u.log.Warn("failed to read local asset, keeping local reference",
			zap.String("uri", uri), zap.Error(err))
		return uri
	}

	url, err := u.store.Put(path, data, contentType)
	if err != nil {
		u.log.Warn("asset upload failed, keeping local reference",
			zap.String("uri", uri), zap.String("path", path), zap.Error(err))
		return uri
	}
	return url
}

func orTempID(productID string) string {
	if productID != "" {
		return productID
	}
	return "temp-" + uuid.New().String()
}
