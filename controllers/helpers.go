// controllers/helpers.go
package controllers

import (
	"net/http"

	"homeserve-backend/config"
	"homeserve-backend/models"
	"homeserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID pulls the authenticated user id out of the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// requireUserID aborts with 401 when no authenticated user is present.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return id, true
}

// parseIDParam parses the :id route parameter as a UUID.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// providerForUser loads the provider profile owned by the given user.
func providerForUser(userID uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := config.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}
