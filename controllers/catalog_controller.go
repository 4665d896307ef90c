package controllers

import (
	"net/http"
	"strings"

	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogController handles HTTP requests for the product catalog.
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController.
func NewCatalogController(svc services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: svc}
}

// ListProducts handles GET /products?gender=men|women
func (cc *CatalogController) ListProducts(ctx *gin.Context) {
	var gender *models.Gender
	if raw := strings.TrimSpace(ctx.Query("gender")); raw != "" {
		g := models.Gender(raw)
		if !g.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gender filter"})
			return
		}
		gender = &g
	}

	products, svcErr := cc.catalogService.ListProducts(ctx.Request.Context(), gender, middleware.IsAdmin(ctx))
	if svcErr != nil {
		// Observable failure, empty-state body: the caller renders an
		// empty list instead of crashing.
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "products": []models.ProductView{}})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /products/:id
func (cc *CatalogController) GetProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	product, svcErr := cc.catalogService.GetProduct(ctx.Request.Context(), id, middleware.IsAdmin(ctx))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products (admin)
func (cc *CatalogController) CreateProduct(ctx *gin.Context) {
	var req models.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := cc.catalogService.CreateProduct(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id (admin)
func (cc *CatalogController) UpdateProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	var req models.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := cc.catalogService.UpdateProduct(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id (admin)
func (cc *CatalogController) DeleteProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	if svcErr := cc.catalogService.DeleteProduct(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// GetImageUploadURL handles GET /products/image-upload-url (admin)
func (cc *CatalogController) GetImageUploadURL(ctx *gin.Context) {
	filename := strings.TrimSpace(ctx.Query("filename"))
	contentType := strings.TrimSpace(ctx.Query("content_type"))
	if filename == "" || contentType == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "filename and content_type query parameters are required"})
		return
	}

	upload, svcErr := cc.catalogService.PresignImageUpload(ctx.Request.Context(), filename, contentType)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, upload)
}
