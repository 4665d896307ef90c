package controllers

import (
	"net/http"

	"storefront-service/middleware"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// AdminController handles user-role management endpoints.
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController.
func NewAdminController(svc services.AdminService) *AdminController {
	return &AdminController{adminService: svc}
}

// ListUsers handles GET /admin/users
func (ac *AdminController) ListUsers(ctx *gin.Context) {
	users, svcErr := ac.adminService.ListUsersWithRoles(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"users": users})
}

// GrantRole handles POST /admin/users/:id/role
func (ac *AdminController) GrantRole(ctx *gin.Context) {
	targetID := ctx.Param("id")

	if svcErr := ac.adminService.GrantAdmin(ctx.Request.Context(), targetID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "admin role granted"})
}

// RevokeRole handles DELETE /admin/users/:id/role
func (ac *AdminController) RevokeRole(ctx *gin.Context) {
	actingID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	targetID := ctx.Param("id")

	if svcErr := ac.adminService.RevokeAdmin(ctx.Request.Context(), actingID, targetID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "admin role revoked"})
}
