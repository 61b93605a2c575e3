package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/modules/catalog"
	"subbazar.com/app/internal/modules/identity"
	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/modules/payments"
	"subbazar.com/app/internal/shared/apperr"
)

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page"))
	size, _ = strconv.Atoi(c.Query("page_size"))
	return page, size
}

// asAppErr maps domain errors onto the apperr envelope. Anything unmapped is
// an upstream failure and stays internal.
func asAppErr(err error) *apperr.AppError {
	switch {
	case errors.Is(err, orders.ErrEmptyOrder):
		return apperr.InvalidErr("Your order has no items.", nil)
	case errors.Is(err, orders.ErrProductNotFound), errors.Is(err, catalog.ErrProductNotFound):
		return apperr.NotFoundErr("One of the products is no longer available.")
	case errors.Is(err, orders.ErrInvalidTotal):
		return apperr.InvalidErr("Order total must be positive.", nil)
	case errors.Is(err, orders.ErrOrderNotFound):
		return apperr.NotFoundErr("Order not found.")
	case errors.Is(err, payments.ErrInvalidEvidence):
		return apperr.InvalidErr("Evidence must be a JPEG or PNG up to 5 MB.", map[string]string{"evidence": err.Error()})
	case errors.Is(err, payments.ErrOrderNotPayable):
		return apperr.ConflictErr("This order is not awaiting payment.")
	case errors.Is(err, payments.ErrProofNotFound):
		return apperr.NotFoundErr("Payment proof not found.")
	case errors.Is(err, payments.ErrInvalidDecision):
		return apperr.InvalidErr("Decision must be approve or reject.", nil)
	case errors.Is(err, payments.ErrAlreadyDecided):
		return apperr.ConflictErr("This proof has already been decided.")
	case errors.Is(err, payments.ErrNotAdmin):
		return apperr.ForbiddenErr("Admin role required.")
	case errors.Is(err, identity.ErrInvalidCredentials):
		return apperr.UnauthorizedErr("Invalid email or password.")
	case errors.Is(err, catalog.ErrProductReferenced):
		return apperr.ConflictErr("Product is referenced by existing orders and cannot be deleted.")
	default:
		return apperr.Wrap(err)
	}
}
