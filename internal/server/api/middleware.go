package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/dmitrijs2005/videohub/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserKey  = "videohub.user"
	ctxTokenKey = "videohub.accessToken"
)

const maxJSONBody = 16 << 10

// requireAuth resolves the access token to a user or fails with 401.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c, common.AccessTokenCookieName)
		if token == "" {
			fail(c, NewAPIError(http.StatusUnauthorized, "unauthorized request", common.ErrorUnauthorized))
			return
		}
		user, err := h.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			fail(c, orMessage(err, http.StatusUnauthorized, "invalid access token"))
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

// optionalAuth attaches the user when a valid token is present and lets the
// request through anonymously otherwise.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c, common.AccessTokenCookieName); token != "" {
			if user, err := h.users.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ctxUserKey, user)
				c.Set(ctxTokenKey, token)
			}
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func currentUserID(c *gin.Context) string {
	if u := currentUser(c); u != nil {
		return u.ID
	}
	return ""
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// limitJSONBody caps JSON and urlencoded bodies. Multipart uploads are not
// limited here.
func limitJSONBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := c.ContentType()
		if c.Request.Body != nil && !strings.HasPrefix(ct, "multipart/") {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
