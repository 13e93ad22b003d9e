package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairplay-su/scdm-server/internal/i18n"
)

const (
	ctxKeyLang = "lang"
	ctxKeyUser = "auth.user"

	requestIDHeader = "X-Request-Id"
	bearerPrefix    = "Bearer "
)

// requestLog tags every request with an id and writes one access-log line.
func (s *HTTPServer) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// language negotiates the response locale from the Accept-Language header
// and stashes it in the gin context for the handlers.
func (s *HTTPServer) language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeyLang, s.bundle.Match(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// lang returns the locale negotiated for the request.
func (s *HTTPServer) lang(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyLang); ok {
		if lang, ok := v.(string); ok {
			return lang
		}
	}
	return i18n.DefaultLocale
}

// t resolves a message key in the request's locale.
func (s *HTTPServer) t(c *gin.Context, key string) string {
	return s.bundle.Resolve(s.lang(c), key)
}
