package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicAnnotate decorates the transaction started by nrgin with the
// request ID and reports handler errors. It must run after nrgin.Middleware.
func NewRelicAnnotate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		txn := nrgin.Transaction(c)
		if txn == nil {
			return
		}
		if rid := c.GetString(requestIDKey); rid != "" {
			txn.AddAttribute("requestId", rid)
		}

		// Record error if present.
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
