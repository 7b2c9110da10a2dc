package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ragu/internal/service"
)

const authClaimsKey = "auth_claims"

// JWTAuthMiddleware valida JWT access tokens y guarda claims en el contexto.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			respond(c, http.StatusInternalServerError, codeInternal, "jwt not configured")
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respond(c, http.StatusUnauthorized, codeUnauthorized, "missing token")
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			respond(c, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// requirePathUser rechaza requests cuyo :userId no coincide con el uid del token.
func requirePathUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorizeUser(c, c.Param("userId")) {
			return
		}
		c.Next()
	}
}

// authorizeUser devuelve true si no hay auth configurada o si el token pertenece a userID.
func authorizeUser(c *gin.Context, userID string) bool {
	claims, ok := GetAuthClaims(c)
	if !ok {
		return true
	}
	if claims.UserID != userID {
		respond(c, http.StatusForbidden, codeForbidden, "token does not grant access to this profile")
		return false
	}
	return true
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
