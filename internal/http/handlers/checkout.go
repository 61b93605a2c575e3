package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/http/validation"
	"subbazar.com/app/internal/modules/identity"
	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/shared/apperr"
)

type CheckoutHandler struct {
	Orders *orders.Service
	Guests *identity.Provisioner
}

func NewCheckoutHandler(orderSvc *orders.Service, guests *identity.Provisioner) *CheckoutHandler {
	return &CheckoutHandler{Orders: orderSvc, Guests: guests}
}

type checkoutItem struct {
	ProductID string `json:"product_id" binding:"required,max=64"`
	Quantity  int    `json:"quantity" binding:"required,gte=1,lte=50"`
}

type checkoutInput struct {
	Email string         `json:"email" binding:"omitempty,email,max=255"`
	Items []checkoutItem `json:"items" binding:"required,min=1,max=50,dive"`
}

// Post places an order. Prices in the request body are ignored entirely; the
// order service recomputes the total from product rows.
func (h *CheckoutHandler) Post(c *gin.Context) {
	caller, authed := middleware.Caller(c)

	var in checkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Check the form fields.", errs))
		return
	}

	var email string
	var userID *string

	if authed {
		email = caller.Email
		userID = &caller.IdentityID
	} else {
		email = strings.ToLower(strings.TrimSpace(in.Email))
		if email == "" {
			middleware.Fail(c, apperr.InvalidErr("Email is required for guest checkout.", validation.FieldErrors{"email": "This field is required."}))
			return
		}

		// Provision a guest account. An already-registered email is not an
		// error and the response must not reveal it; the order just stays
		// unlinked until the customer logs in.
		res, err := h.Guests.ProvisionGuest(c.Request.Context(), email)
		if err != nil {
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
		userID = res.IdentityID
	}

	items := make([]orders.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, orders.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	o, err := h.Orders.Create(c.Request.Context(), orders.CreateInput{
		Items:  items,
		Email:  email,
		UserID: userID,
	})
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":     o.ID,
		"status":       o.Status,
		"total_amount": o.TotalAmount,
		"currency":     o.Currency,
	})
}
