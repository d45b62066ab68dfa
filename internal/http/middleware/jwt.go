package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookingdesk/internal/auth"
	"bookingdesk/internal/dto"
	"bookingdesk/internal/model"
)

const principalKey = "principal"

// JWTAuth rejects requests without a valid bearer token and stores the
// token's principal in the context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "bearer token required"})
			return
		}
		claims, err := auth.Verify(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid token"})
			return
		}
		c.Set(principalKey, claims.Principal(token))
		c.Next()
	}
}

// RequireRole must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if ok {
			for _, role := range roles {
				if p.Role == role {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "role not allowed"})
	}
}

func PrincipalFrom(c *gin.Context) (model.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
