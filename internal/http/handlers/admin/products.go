package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/http/validation"
	"subbazar.com/app/internal/modules/catalog"
	"subbazar.com/app/internal/shared/apperr"
	"subbazar.com/app/internal/storage"
)

type ProductsHandler struct {
	Catalog *catalog.Repo
	Files   storage.Storage
}

func NewProductsHandler(repo *catalog.Repo, files storage.Storage) *ProductsHandler {
	return &ProductsHandler{Catalog: repo, Files: files}
}

type productInput struct {
	Title            string  `json:"title" binding:"required,min=2,max=255"`
	TitleBn          string  `json:"title_bn" binding:"omitempty,max=255"`
	Description      string  `json:"description" binding:"omitempty,max=5000"`
	Price            int     `json:"price" binding:"required,gt=0"`
	SalePrice        *int    `json:"sale_price" binding:"omitempty,gt=0"`
	SubscriptionType string  `json:"subscription_type" binding:"required,oneof=monthly yearly lifetime shared"`
	CategoryID       *string `json:"category_id" binding:"omitempty,max=64"`
	InStock          bool    `json:"in_stock"`
	Active           bool    `json:"active"`
}

func (h *ProductsHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	res, err := h.Catalog.List(c.Request.Context(), catalog.ListParams{
		CategoryID:       c.Query("category_id"),
		SubscriptionType: c.Query("subscription_type"),
		IncludeInactive:  true,
		Page:             page,
	})
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res.Items, "total": res.Total})
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Check the form fields.", errs))
		return
	}

	p, err := h.Catalog.CreateProduct(c.Request.Context(), toProductInput(in))
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Check the form fields.", errs))
		return
	}

	if err := h.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), toProductInput(in)); err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UploadImage stores an admin-authored product image. Unlike customer
// evidence, gif/webp are allowed here.
func (h *ProductsHandler) UploadImage(c *gin.Context) {
	productID := c.Param("id")
	if _, err := h.Catalog.Get(c.Request.Context(), productID); err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Image file is required.", validation.FieldErrors{"image": "This field is required."}))
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if err := storage.CheckImage(contentType, fh.Size, true); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Image must be JPEG, PNG, GIF or WebP up to 5 MB.", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	put, err := h.Files.Put(c.Request.Context(), f, storage.PutInput{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(fmt.Errorf("product image upload: %w", err)))
		return
	}

	if err := h.Catalog.SetImageURL(c.Request.Context(), productID, put.URL); err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": put.URL})
}

func toProductInput(in productInput) catalog.ProductInput {
	return catalog.ProductInput{
		Title:            in.Title,
		TitleBn:          in.TitleBn,
		Description:      in.Description,
		Price:            in.Price,
		SalePrice:        in.SalePrice,
		SubscriptionType: in.SubscriptionType,
		CategoryID:       in.CategoryID,
		InStock:          in.InStock,
		Active:           in.Active,
	}
}
