package server

import (
	"net/http"
	"time"

	"taskhub/internal/apperr"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	claimsKey    = "claims"
	phoneKey     = "phone"
	requestIDKey = "requestID"
)

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Infow("request",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"clientIP", c.ClientIP(),
			"latency", time.Since(start).String(),
			"userAgent", c.Request.UserAgent(),
		)
	}
}

func recovery(log *zap.SugaredLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Errorw("panic", "requestID", c.GetString(requestIDKey), "error", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// adminOnly admits requests bearing an admin token and stores its claims.
func (s *Server) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.tokens.AdminOnly(c.GetHeader("Authorization"))
		if err != nil {
			s.abort(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// authenticated admits requests bearing any valid token and stores its phone.
func (s *Server) authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		phone, err := s.tokens.AuthenticatedPhone(c.GetHeader("Authorization"))
		if err != nil {
			s.abort(c, err)
			return
		}
		c.Set(phoneKey, phone)
		c.Next()
	}
}

// abort writes err as {"detail": msg} with the status of its kind.
func (s *Server) abort(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()
	if status >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "requestID", c.GetString(requestIDKey), "kind", kind, "error", err)
	} else {
		s.log.Debugw("request rejected", "requestID", c.GetString(requestIDKey), "kind", kind, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": apperr.Message(err)})
}

// abortBinding reports a malformed request body.
func (s *Server) abortBinding(c *gin.Context, err error) {
	s.abort(c, apperr.Wrap(apperr.KindValidation, err.Error(), err))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
