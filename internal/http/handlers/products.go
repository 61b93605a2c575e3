package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/modules/catalog"
)

type ProductHandler struct {
	Catalog *catalog.Repo
}

func NewProductHandler(repo *catalog.Repo) *ProductHandler {
	return &ProductHandler{Catalog: repo}
}

func (h *ProductHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.Catalog.List(c.Request.Context(), catalog.ListParams{
		CategoryID:       c.Query("category_id"),
		SubscriptionType: c.Query("subscription_type"),
		Page:             page,
		PageSize:         size,
	})
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res.Items, "total": res.Total})
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Categories(c *gin.Context) {
	items, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
