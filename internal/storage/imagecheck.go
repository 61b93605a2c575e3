package storage

import (
	"errors"
	"fmt"
	"strings"
)

// MaxImageSize caps every uploaded image at 5 MB.
const MaxImageSize = 5 << 20

var ErrBadImage = errors.New("unsupported image")

// customer uploads; gif/webp are reserved for admin-authored content
var customerImageMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

var adminImageMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// CheckImage validates content type and size before any upload is attempted.
func CheckImage(contentType string, size int64, adminContent bool) error {
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrBadImage)
	}
	if size > MaxImageSize {
		return fmt.Errorf("%w: file exceeds 5 MB", ErrBadImage)
	}
	if _, ok := allowedImageMIME(adminContent)[normalizeMIME(contentType)]; !ok {
		return fmt.Errorf("%w: type %q", ErrBadImage, contentType)
	}
	return nil
}

// ImageExt maps a validated content type to the storage key extension.
func ImageExt(contentType string, adminContent bool) string {
	return allowedImageMIME(adminContent)[normalizeMIME(contentType)]
}

func allowedImageMIME(adminContent bool) map[string]string {
	if adminContent {
		return adminImageMIME
	}
	return customerImageMIME
}

func normalizeMIME(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
