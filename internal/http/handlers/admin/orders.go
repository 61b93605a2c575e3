package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/modules/payments"
)

type OrdersHandler struct {
	Orders *orders.Repo
	Proofs *payments.Repo
}

func NewOrdersHandler(ordersRepo *orders.Repo, proofsRepo *payments.Repo) *OrdersHandler {
	return &OrdersHandler{Orders: ordersRepo, Proofs: proofsRepo}
}

func (h *OrdersHandler) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	status := strings.TrimSpace(c.Query("status"))
	page := parseInt(c.Query("page"), 1)

	res, err := h.Orders.AdminList(c.Request.Context(), orders.AdminListParams{
		Q: q, Status: status, Page: page, PageSize: 30,
	})
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, gin.H{
			"order_id":       o.ID,
			"user_id":        o.UserID,
			"customer_email": o.CustomerEmail,
			"status":         orders.NormalizeStatus(o.Status),
			"total_amount":   o.TotalAmount,
			"currency":       o.Currency,
			"created_at":     o.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": res.Total})
}

// Detail includes the order snapshot and the proof, if one was submitted.
func (h *OrdersHandler) Detail(c *gin.Context) {
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

	out := gin.H{
		"order_id":       o.ID,
		"user_id":        o.UserID,
		"customer_email": o.CustomerEmail,
		"status":         orders.NormalizeStatus(o.Status),
		"items":          items,
		"total_amount":   o.TotalAmount,
		"currency":       o.Currency,
		"paid_at":        o.PaidAt,
		"created_at":     o.CreatedAt,
	}

	proof, err := h.Proofs.ByOrder(c.Request.Context(), o.ID)
	switch {
	case err == nil:
		out["proof"] = proof
	case errors.Is(err, payments.ErrProofNotFound):
		// no proof yet
	default:
		middleware.Fail(c, asAppErr(err))
		return
	}

	c.JSON(http.StatusOK, out)
}
