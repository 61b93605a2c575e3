package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/http/validation"
	"subbazar.com/app/internal/modules/payments"
	"subbazar.com/app/internal/shared/apperr"
)

type PaymentProofHandler struct {
	Proofs *payments.ProofService
}

func NewPaymentProofHandler(svc *payments.ProofService) *PaymentProofHandler {
	return &PaymentProofHandler{Proofs: svc}
}

// Post accepts the manual payment proof: a transaction reference plus the
// evidence image as multipart form data. Works for guests and owners alike;
// the proof binds to the order's stored email, never to anything the client
// sends.
func (h *PaymentProofHandler) Post(c *gin.Context) {
	orderID := c.Param("id")

	ref := strings.TrimSpace(c.PostForm("transaction_id"))
	if ref == "" {
		middleware.Fail(c, apperr.InvalidErr("Transaction ID is required.", validation.FieldErrors{"transaction_id": "This field is required."}))
		return
	}
	if len(ref) > 128 {
		middleware.Fail(c, apperr.InvalidErr("Transaction ID is too long.", validation.FieldErrors{"transaction_id": "Must be at most 128 characters."}))
		return
	}

	fh, err := c.FormFile("evidence")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Evidence image is required.", validation.FieldErrors{"evidence": "This field is required."}))
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	res, err := h.Proofs.Submit(c.Request.Context(), payments.SubmitInput{
		OrderID:        orderID,
		TransactionRef: ref,
		Evidence: payments.Evidence{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		},
	})
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proof_id":     res.ProofID,
		"order_id":     res.OrderID,
		"order_status": "payment_submitted",
	})
}
