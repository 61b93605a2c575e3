package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/modules/orders"
)

type OrderHandler struct {
	Orders *orders.Repo
}

func NewOrderHandler(repo *orders.Repo) *OrderHandler {
	return &OrderHandler{Orders: repo}
}

// Get is the privilege-neutral order summary: a guest mid-checkout holds
// nothing but the order id, so the lookup is keyed on id alone. The response
// carries no more than the payment page needs.
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Orders.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	items, err := orders.DecodeItems(o)
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":     o.ID,
		"status":       orders.NormalizeStatus(o.Status),
		"items":        items,
		"total_amount": o.TotalAmount,
		"currency":     o.Currency,
		"created_at":   o.CreatedAt,
	})
}

// ListMine returns the caller's orders, including unclaimed guest orders
// placed with the account email.
func (h *OrderHandler) ListMine(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	page, size := pageParams(c)

	res, err := h.Orders.ListByUser(c.Request.Context(), orders.ListByUserParams{
		UserID:   caller.IdentityID,
		Page:     page,
		PageSize: size,
		Status:   c.Query("status"),
	})
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res.Items, "total": res.Total})
}
