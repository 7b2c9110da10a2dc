package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-ragu/internal/domain"
	"resume-ragu/internal/service"
)

// ProfileHandler expone el CRUD del perfil bajo /api/profile/:userId.
type ProfileHandler struct {
	logger   *zap.Logger
	profiles *service.ProfileService
}

func NewProfileHandler(logger *zap.Logger, profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{logger: logger, profiles: profiles}
}

// GetProfile maneja GET /api/profile/:userId.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, "get profile failed", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PutProfile maneja PUT /api/profile/:userId.
func (h *ProfileHandler) PutProfile(c *gin.Context) {
	var req domain.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid put profile request", zap.Error(err))
		respond(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	profile, err := h.profiles.ReplaceProfile(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		h.fail(c, "replace profile failed", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteProfile maneja DELETE /api/profile/:userId.
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.profiles.DeleteProfile(c.Request.Context(), c.Param("userId")); err != nil {
		h.fail(c, "delete profile failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) fail(c *gin.Context, msg string, err error) {
	status, _ := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.String("user_id", c.Param("userId")), zap.Error(err))
	} else {
		h.logger.Warn(msg, zap.String("user_id", c.Param("userId")), zap.Error(err))
	}
	respondError(c, err)
}

// addEntityHandler maneja POST /api/profile/:userId/<kind>.
func addEntityHandler[T any](h *ProfileHandler, add func(ctx context.Context, userID string, item T) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid add entity request", zap.Error(err))
			respond(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
			return
		}
		created, err := add(c.Request.Context(), c.Param("userId"), req)
		if err != nil {
			h.fail(c, "add entity failed", err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// updateEntityHandler maneja PUT /api/profile/:userId/<kind>/:entityId.
func updateEntityHandler[T any](h *ProfileHandler, update func(ctx context.Context, userID, entityID string, item T) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid update entity request", zap.Error(err))
			respond(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
			return
		}
		updated, err := update(c.Request.Context(), c.Param("userId"), c.Param("entityId"), req)
		if err != nil {
			h.fail(c, "update entity failed", err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// deleteEntityHandler maneja DELETE /api/profile/:userId/<kind>/:entityId.
func deleteEntityHandler(h *ProfileHandler, del func(ctx context.Context, userID, entityID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := del(c.Request.Context(), c.Param("userId"), c.Param("entityId")); err != nil {
			h.fail(c, "delete entity failed", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// register monta las rutas de perfil sobre el grupo /api/profile/:userId.
func (h *ProfileHandler) register(g *gin.RouterGroup) {
	g.GET("", h.GetProfile)
	g.PUT("", h.PutProfile)
	g.DELETE("", h.DeleteProfile)

	svc := h.profiles
	g.POST("/jobs", addEntityHandler(h, svc.AddJob))
	g.PUT("/jobs/:entityId", updateEntityHandler(h, svc.UpdateJob))
	g.DELETE("/jobs/:entityId", deleteEntityHandler(h, svc.DeleteJob))

	g.POST("/skills", addEntityHandler(h, svc.AddSkill))
	g.PUT("/skills/:entityId", updateEntityHandler(h, svc.UpdateSkill))
	g.DELETE("/skills/:entityId", deleteEntityHandler(h, svc.DeleteSkill))

	g.POST("/projects", addEntityHandler(h, svc.AddProject))
	g.PUT("/projects/:entityId", updateEntityHandler(h, svc.UpdateProject))
	g.DELETE("/projects/:entityId", deleteEntityHandler(h, svc.DeleteProject))

	g.POST("/accomplishments", addEntityHandler(h, svc.AddAccomplishment))
	g.PUT("/accomplishments/:entityId", updateEntityHandler(h, svc.UpdateAccomplishment))
	g.DELETE("/accomplishments/:entityId", deleteEntityHandler(h, svc.DeleteAccomplishment))
}
