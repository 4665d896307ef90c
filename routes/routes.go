package routes

import (
	"net/http"

	"storefront-service/controllers"
	"storefront-service/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Catalog  *controllers.CatalogController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Admin    *controllers.AdminController
}

// RegisterRoutes sets up the full HTTP surface.
func RegisterRoutes(r *gin.Engine, c Controllers, jwtSecret []byte) {
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Catalog reads are public; privilege is derived from the token
	// when one is present.
	products := r.Group("/products")
	products.Use(middleware.OptionalAuth(jwtSecret))
	{
		products.GET("", c.Catalog.ListProducts)
		products.GET("/:id", c.Catalog.GetProduct)
	}

	// Catalog mutations and image uploads are admin-only.
	adminProducts := r.Group("/products")
	adminProducts.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
	{
		adminProducts.POST("", c.Catalog.CreateProduct)
		adminProducts.PUT("/:id", c.Catalog.UpdateProduct)
		adminProducts.DELETE("/:id", c.Catalog.DeleteProduct)
		adminProducts.GET("/image-upload-url", c.Catalog.GetImageUploadURL)
	}

	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware(jwtSecret))
	{
		cart.GET("", c.Cart.GetCart)
		cart.POST("/add", c.Cart.AddItem)
		cart.POST("/:id/decrement", c.Cart.DecrementItem)
		cart.DELETE("/:id", c.Cart.RemoveItem)
	}

	checkout := r.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(jwtSecret))
	{
		checkout.POST("", c.Checkout.Checkout)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
	{
		admin.GET("/users", c.Admin.ListUsers)
		admin.POST("/users/:id/role", c.Admin.GrantRole)
		admin.DELETE("/users/:id/role", c.Admin.RevokeRole)
	}
}
