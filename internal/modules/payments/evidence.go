package payments

import (
	"fmt"
	"io"

	"subbazar.com/app/internal/storage"
)

// MaxEvidenceSize caps uploaded proof images at 5 MB.
const MaxEvidenceSize = storage.MaxImageSize

// Evidence is the uploaded file as received at the boundary. Size must be the
// real byte count (multipart header, not client-claimed).
type Evidence struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CheckEvidence validates type and size before any upload is attempted.
// Customer proofs accept jpeg/png only.
func CheckEvidence(ev Evidence) error {
	if err := storage.CheckImage(ev.ContentType, ev.Size, false); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvidence, err)
	}
	return nil
}

// EvidenceExt maps the validated content type to the storage key extension.
func EvidenceExt(contentType string) string {
	return storage.ImageExt(contentType, false)
}
