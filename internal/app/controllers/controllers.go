// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
)

// actorFromContext builds the acting identity from the claims the auth
// middleware stored on the request context.
func actorFromContext(ctx *gin.Context) (lifecycle.Actor, bool) {
	userIDValue, exists := ctx.Get("userID")
	if !exists {
		return lifecycle.Actor{}, false
	}
	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return lifecycle.Actor{}, false
	}

	roleValue, _ := ctx.Get("userRole")
	roleStr, _ := roleValue.(string)

	return lifecycle.Actor{UID: userID, Role: models.RoleType(roleStr)}, true
}

// requireActor resolves the actor or aborts with 401.
func requireActor(ctx *gin.Context) (lifecycle.Actor, bool) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return lifecycle.Actor{}, false
	}
	return actor, true
}

// parseIDParam reads a UUID path parameter or aborts with 400.
func parseIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier")
		errorDetail = errorDetail.WithField(name)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}
