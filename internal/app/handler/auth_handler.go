package handler

import (
	"net/http"
	"strings"
	"time"

	"academy/internal/app/ds"
	"academy/internal/app/dto"
	"academy/internal/app/middleware"
	"academy/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "Pogrešan email ili lozinka"

// Login authenticates a back-office user
// @Summary Login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	user, err := h.Repository.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !repository.IsNotFound(err) {
			logrus.Error("login lookup: ", err)
		}
		h.errorResponse(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.errorResponse(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	accessToken, err := h.issueToken(user)
	if err != nil {
		logrus.Error("sign token: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Interna greška servera")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      accessToken,
		"token_type": "Bearer",
		"expires_in": int(h.Config.JWT.ExpiresIn.Seconds()),
		"user":       userResponse(user),
	})
}

func (h *Handler) issueToken(user *ds.User) (string, error) {
	now := h.now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    h.Config.JWT.Issuer,
		},
		UserID: user.ID,
		Role:   user.Role,
	})
	return token.SignedString([]byte(h.Config.JWT.Token))
}

// Logout blacklists the presented token until it expires
// @Summary Logout
// @Tags Authentication
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	tokenString := middleware.BearerToken(c)
	if tokenString == "" {
		h.errorResponse(c, http.StatusUnauthorized, "Nedostaje token")
		return
	}

	claims := &ds.JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.Config.JWT.Token), nil
	})
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Neispravan token")
		return
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl > 0 && h.RedisClient != nil {
		if err := h.RedisClient.WriteJWTToBlacklist(c.Request.Context(), tokenString, ttl); err != nil {
			logrus.Error("blacklist token: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "Interna greška servera")
			return
		}
	}

	h.successResponse(c, http.StatusOK, "Odjava uspješna", nil)
}

func (h *Handler) Profile(c *gin.Context) {
	current, ok := middleware.GetUserFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Korisnik nije prijavljen")
		return
	}

	user, err := h.Repository.GetUserByID(c.Request.Context(), current.ID)
	if err != nil {
		h.handleError(c, err, "Korisnik nije pronađen")
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

func userResponse(u *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role.String(),
	}
}
