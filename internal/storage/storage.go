package storage

import (
	"context"
	"strings"
	"time"
)

// DefaultPresignedURLExpiry is how long a signed proof-image link stays valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// ProofURLSigner hands out short-lived links for proof images so the browser
// talks to the bucket directly.
type ProofURLSigner interface {
	// GeneratePresignedUploadURL creates a temporary PUT URL for objectKey.
	// Only the host header is signed, so the URL does not restrict the
	// Content-Type of the uploaded body.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	// GeneratePresignedDownloadURL creates a temporary GET URL for an object key.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

var proofExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
}

// ProofExtension returns the file extension for an accepted proof-image
// content type. It picks the object key's extension; the bucket does not check
// the uploaded bytes against it.
func ProofExtension(contentType string) (string, bool) {
	ext, ok := proofExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// IsObjectKey reports whether a proof reference is a bucket key rather than an
// already-public URL. Clients may submit either.
func IsObjectKey(ref string) bool {
	if ref == "" {
		return false
	}
	lower := strings.ToLower(ref)
	return !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")
}
