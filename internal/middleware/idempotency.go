package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehail/internal/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"

	// pendingTTL bounds a claim left behind by a request that never finished.
	pendingTTL  = time.Minute
	responseTTL = 24 * time.Hour
)

// captureWriter tees the response body so it can be stored.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the first successful response to a POST, PUT or PATCH
// that repeats an Idempotency-Key. Keys are scoped to method and path. A
// repeat that arrives while the first request is running gets 409. Failed
// requests release the key so the client can retry. Store errors let the
// request through unprotected.
func Idempotency(store redis.ResponseStoreInterface, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}
		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		stored, err := store.Load(ctx, storeKey)
		if err != nil {
			logger.WarnContext(ctx, "idempotency lookup failed", "key", key, "error", err)
			c.Next()
			return
		}
		if stored != nil {
			c.Header(replayedHeader, "true")
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		claimed, err := store.Reserve(ctx, storeKey, pendingTTL)
		if err != nil {
			logger.WarnContext(ctx, "idempotency reserve failed", "key", key, "error", err)
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "a request with this Idempotency-Key is already in progress"})
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		ctx = context.WithoutCancel(ctx)
		status := w.Status()
		if status < 200 || status >= 300 {
			if err := store.Release(ctx, storeKey); err != nil {
				logger.WarnContext(ctx, "idempotency release failed", "key", key, "error", err)
			}
			return
		}
		err = store.Save(ctx, storeKey, &redis.StoredResponse{
			StatusCode:  status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}, responseTTL)
		if err != nil {
			logger.WarnContext(ctx, "idempotency save failed", "key", key, "error", err)
		}
	}
}
