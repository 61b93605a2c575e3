package payments

import "errors"

var (
	ErrInvalidEvidence     = errors.New("invalid evidence file")
	ErrOrderNotPayable     = errors.New("order not payable")
	ErrEvidenceUpload      = errors.New("evidence upload failed")
	ErrProofSubmission     = errors.New("proof submission failed")
	ErrProofNotFound       = errors.New("payment proof not found")
	ErrInvalidDecision     = errors.New("invalid decision")
	ErrAlreadyDecided      = errors.New("proof already decided")
	ErrNotAdmin            = errors.New("admin role required")
	ErrPartialVerification = errors.New("partial verification failure")
)
