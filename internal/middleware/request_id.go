package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextKeyReqID  = "request_id"
)

// RequestID propagates an inbound request id or mints one, and echoes it on
// the response so clients can correlate logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ContextKeyReqID, rid)
		c.Writer.Header().Set(HeaderXRequestID, rid)
		c.Next()
	}
}
