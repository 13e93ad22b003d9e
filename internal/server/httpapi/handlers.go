package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fairplay-su/scdm-server/internal/common"
	"github.com/fairplay-su/scdm-server/internal/server/models"
)

type registerRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	MainFaction string `json:"main_faction"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// userPayload is the client-facing user object. Its fields are structural
// and never localized.
type userPayload struct {
	ID          int64          `json:"id"`
	Login       string         `json:"login"`
	MainFaction models.Faction `json:"main_faction"`
	SystemRole  models.Role    `json:"system_role"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:          u.ID,
		Login:       u.Login,
		MainFaction: u.MainFaction,
		SystemRole:  u.SystemRole,
	}
}

// Welcome handles GET / with a localized status envelope.
func (s *HTTPServer) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  s.t(c, "api.welcome"),
		"version":  "1.0.0",
		"status":   "OK",
		"language": s.lang(c),
	})
}

// Register handles POST /api/auth/register.
func (s *HTTPServer) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "errors.required_fields")
		return
	}

	user, token, err := s.auth.Register(c.Request.Context(), req.Login, req.Password, models.Faction(req.MainFaction))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			s.fail(c, http.StatusBadRequest, "errors.required_fields")
		case errors.Is(err, common.ErrorLoginTaken):
			s.fail(c, http.StatusConflict, "errors.user_exists")
		default:
			s.fail(c, http.StatusInternalServerError, "errors.server_error")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": s.t(c, "success.registered"),
		"token":   token,
		"user":    toUserPayload(user),
	})
}

// Login handles POST /api/auth/login.
func (s *HTTPServer) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "errors.required_fields")
		return
	}

	user, token, err := s.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			s.fail(c, http.StatusBadRequest, "errors.required_fields")
		case errors.Is(err, common.ErrorInvalidCredentials):
			s.fail(c, http.StatusUnauthorized, "errors.invalid_credentials")
		default:
			s.fail(c, http.StatusInternalServerError, "errors.server_error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": s.t(c, "success.logged_in"),
		"token":   token,
		"user":    toUserPayload(user),
	})
}

// requireAuth resolves the Bearer token from the Authorization header and
// stores the bound user in the context. A missing or malformed header, an
// invalid token and an unknown account all produce the same 401.
func (s *HTTPServer) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), bearerPrefix)
		if !ok || token == "" {
			s.abortUnauthorized(c)
			return
		}

		user, err := s.auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorInternal) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": s.t(c, "errors.server_error"),
				})
				return
			}
			s.abortUnauthorized(c)
			return
		}

		c.Set(ctxKeyUser, user)
		c.Next()
	}
}

// Me handles GET /api/auth/me for an authenticated request.
func (s *HTTPServer) Me(c *gin.Context) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		s.abortUnauthorized(c)
		return
	}
	user, ok := v.(*models.User)
	if !ok {
		s.abortUnauthorized(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserPayload(user),
	})
}

func (s *HTTPServer) fail(c *gin.Context, status int, key string) {
	c.JSON(status, gin.H{"error": s.t(c, key)})
}

func (s *HTTPServer) abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": s.t(c, "errors.auth_required"),
	})
}
