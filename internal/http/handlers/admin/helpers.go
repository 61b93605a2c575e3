package admin

import (
	"errors"
	"strconv"

	"subbazar.com/app/internal/modules/catalog"
	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/modules/payments"
	"subbazar.com/app/internal/shared/apperr"
)

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func asAppErr(err error) *apperr.AppError {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		return apperr.NotFoundErr("Order not found.")
	case errors.Is(err, payments.ErrProofNotFound):
		return apperr.NotFoundErr("Payment proof not found.")
	case errors.Is(err, payments.ErrInvalidDecision):
		return apperr.InvalidErr("Decision must be approve or reject.", nil)
	case errors.Is(err, payments.ErrAlreadyDecided):
		return apperr.ConflictErr("This proof has already been decided with a different outcome.")
	case errors.Is(err, payments.ErrNotAdmin):
		return apperr.ForbiddenErr("Admin role required.")
	case errors.Is(err, payments.ErrPartialVerification):
		// surfaced distinctly so the operator knows to re-check before retrying
		return &apperr.AppError{
			Kind:      apperr.Conflict,
			PublicMsg: "Verification did not complete; the order was not updated. Re-check the order before retrying.",
			Err:       err,
		}
	case errors.Is(err, catalog.ErrProductNotFound):
		return apperr.NotFoundErr("Product not found.")
	case errors.Is(err, catalog.ErrProductReferenced):
		return apperr.ConflictErr("Product is referenced by existing orders and cannot be deleted.")
	default:
		return apperr.Wrap(err)
	}
}
