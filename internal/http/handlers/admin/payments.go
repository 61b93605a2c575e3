package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/http/validation"
	"subbazar.com/app/internal/modules/payments"
	"subbazar.com/app/internal/shared/apperr"
)

type PaymentsHandler struct {
	Proofs *payments.Repo
	Verify *payments.VerifyService
}

func NewPaymentsHandler(proofsRepo *payments.Repo, verify *payments.VerifyService) *PaymentsHandler {
	return &PaymentsHandler{Proofs: proofsRepo, Verify: verify}
}

// List is the verification queue: undecided proofs by default, oldest first.
func (h *PaymentsHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	res, err := h.Proofs.AdminList(c.Request.Context(), payments.AdminListParams{
		Status: c.Query("status"),
		Page:   page,
	})
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res.Items, "total": res.Total})
}

type decideInput struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

func (h *PaymentsHandler) Decide(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	var in decideInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Decision must be approve or reject.", errs))
		return
	}

	res, err := h.Verify.Decide(c.Request.Context(), caller, c.Param("id"), in.Decision)
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proof_id":     res.ProofID,
		"order_id":     res.OrderID,
		"proof_status": res.ProofStatus,
		"order_status": res.OrderStatus,
		"idempotent":   res.Idempotent,
	})
}
