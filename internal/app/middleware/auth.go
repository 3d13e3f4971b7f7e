package middleware

import (
	"net/http"
	"strings"

	"academy/internal/app/config"
	"academy/internal/app/ds"
	"academy/internal/app/redis"
	"academy/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

type AuthMiddleware struct {
	RedisClient *redis.Client // nil disables the blacklist check
	Config      *config.Config
}

func NewAuthMiddleware(redisClient *redis.Client, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// WithAuthCheck requires a valid bearer token carrying one of the roles
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		jwtStr := BearerToken(gCtx)
		if jwtStr == "" {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if am.RedisClient != nil {
			// nil error means the key exists
			if err := am.RedisClient.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr); err == nil {
				gCtx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}

		claims, err := am.ParseToken(jwtStr)
		if err != nil {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if len(assignedRoles) > 0 && !hasRequiredRole(claims.Role, assignedRoles) {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		gCtx.Set(ctxUserID, claims.UserID)
		gCtx.Set(ctxUserRole, claims.Role)

		gCtx.Next()
	})
}

// ParseToken validates signature and expiry
func (am *AuthMiddleware) ParseToken(tokenString string) (*ds.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(am.Config.JWT.Token), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// BearerToken strips the optional "Bearer " prefix from the Authorization header
func BearerToken(gCtx *gin.Context) string {
	return strings.TrimSpace(strings.TrimPrefix(gCtx.GetHeader("Authorization"), "Bearer "))
}

func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
