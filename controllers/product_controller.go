package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anant-harryfan/shreycommerse/apperrors"
	"github.com/anant-harryfan/shreycommerse/services"
)

type ProductController struct {
	Catalog services.CatalogService
}

func NewProductController(catalog services.CatalogService) *ProductController {
	return &ProductController{Catalog: catalog}
}

// ListProducts returns the catalog, optionally filtered by category_id.
func (pc *ProductController) ListProducts(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			apperrors.Respond(c, apperrors.InvalidArgument("invalid category_id"))
			return
		}
		categoryID = &id
	}

	products, err := pc.Catalog.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns a single product with its category.
func (pc *ProductController) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("invalid product id"))
		return
	}

	product, svcErr := pc.Catalog.GetProduct(c.Request.Context(), productID)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCategories returns every category.
func (pc *ProductController) ListCategories(c *gin.Context) {
	categories, err := pc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}
