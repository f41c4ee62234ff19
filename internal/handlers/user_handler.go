package handlers

import (
	"context"
	"slices"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ListUsers returns users, optionally filtered by ?role=.
func (h *Handler) ListUsers(c *gin.Context) {
	role := c.Query("role")
	if role != "" && !slices.Contains([]string{models.RoleStaff, models.RoleDoctor, models.RoleAdmin}, role) {
		c.Error(apperror.Validation("Validation error: role must be one of: staff, doctor, admin"))
		return
	}
	h.serveCached(c, cache.Users.WithQuery(c.Request.URL.Query()), func(ctx context.Context) (any, error) {
		users, err := h.store.ListUsers(ctx, role)
		return list(users, err)
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.serveCached(c, string(cache.Users.Item(id)), func(ctx context.Context) (any, error) {
		u, err := h.store.GetUser(ctx, id)
		return notFoundOr(u, err, "User")
	})
}
