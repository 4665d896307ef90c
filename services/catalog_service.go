package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImagePresigner issues upload URLs for product images.
type ImagePresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, map[string]string, error)
}

// PresignedUpload is the result of requesting an image upload URL.
type PresignedUpload struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Key       string            `json:"key"`
	PublicURL string            `json:"public_url"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresIn int64             `json:"expires_in"`
}

var allowedImageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// CatalogService is the product-catalog business logic. Wholesale-price
// stripping for non-privileged callers happens here, at the data-access
// boundary.
type CatalogService interface {
	ListProducts(ctx context.Context, gender *models.Gender, privileged bool) ([]models.ProductView, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID, privileged bool) (*models.ProductView, *ServiceError)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.ProductView, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.ProductView, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
	PresignImageUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, *ServiceError)
}

type catalogServiceImpl struct {
	repo          repository.ProductRepository
	cache         *CatalogCache
	presigner     ImagePresigner
	imageBaseURL  string
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewCatalogService creates a new CatalogService. presigner may be nil
// when image uploads are not configured.
func NewCatalogService(
	repo repository.ProductRepository,
	cache *CatalogCache,
	presigner ImagePresigner,
	imageBaseURL string,
	presignExpiry time.Duration,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		repo:          repo,
		cache:         cache,
		presigner:     presigner,
		imageBaseURL:  strings.TrimRight(imageBaseURL, "/"),
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// ListProducts returns products newest first, optionally filtered by
// gender. The wholesale price is present only for privileged callers.
func (s *catalogServiceImpl) ListProducts(ctx context.Context, gender *models.Gender, privileged bool) ([]models.ProductView, *ServiceError) {
	if s.cache != nil {
		if views, ok := s.cache.GetProductList(ctx, gender, privileged); ok {
			return views, nil
		}
	}

	products, err := s.repo.FindAll(ctx, gender)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return []models.ProductView{}, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}

	views := make([]models.ProductView, 0, len(products))
	for i := range products {
		views = append(views, products[i].View(privileged))
	}

	if s.cache != nil {
		s.cache.SetProductListAsync(gender, privileged, views)
	}
	return views, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id uuid.UUID, privileged bool) (*models.ProductView, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}
	view := product.View(privileged)
	return &view, nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.ProductView, *ServiceError) {
	product := &models.Product{
		Title:          req.Title,
		Description:    req.Description,
		Gender:         req.Gender,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		ImageURL:       req.ImageURL,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	s.logger.Info("Product created",
		zap.String("id", product.ID.String()),
		zap.String("title", product.Title),
	)

	view := product.View(true)
	return &view, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.ProductView, *ServiceError) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.RetailPrice != nil {
		updates["retail_price"] = *req.RetailPrice
	}
	if req.WholesalePrice != nil {
		updates["wholesale_price"] = *req.WholesalePrice
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "No fields to update"}
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to update product", zap.String("id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	return s.GetProduct(ctx, id, true)
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to delete product", zap.String("id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	s.logger.Info("Product deleted", zap.String("id", id.String()))
	return nil
}

// PresignImageUpload returns a presigned PUT URL for a product image.
func (s *catalogServiceImpl) PresignImageUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, *ServiceError) {
	if s.presigner == nil {
		return nil, &ServiceError{StatusCode: 422, Message: "Image uploads are not configured"}
	}

	ext, ok := allowedImageContentTypes[contentType]
	if !ok {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid content type. Allowed: image/jpeg, image/png, image/webp"}
	}

	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." {
		base = "image"
	}
	key := fmt.Sprintf("products/%s-%s%s", base, uuid.NewString(), ext)

	uploadURL, headers, err := s.presigner.PresignPut(ctx, key, contentType, s.presignExpiry)
	if err != nil {
		s.logger.Error("Failed to generate presigned upload", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to generate presigned upload"}
	}

	return &PresignedUpload{
		UploadURL: uploadURL,
		Method:    "PUT",
		Key:       key,
		PublicURL: s.imageBaseURL + "/" + key,
		Headers:   headers,
		ExpiresIn: int64(s.presignExpiry.Seconds()),
	}, nil
}
