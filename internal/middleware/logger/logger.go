package logger

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestID"
)

// Logger logs every request once it is served. A request id is taken from the
// X-Request-ID header or generated, and echoed back to the client.
func Logger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		var body []byte
		if logger.Level().Enabled(zap.DebugLevel) && c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				logger.Errorf("error reading request body: %v", err)
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		t := time.Now()
		c.Next()
		duration := time.Since(t)

		logger.Infow("request served",
			"request_id", requestID,
			"uri", c.Request.RequestURI,
			"method", c.Request.Method,
			"duration", duration,
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
		)
		if len(body) > 0 {
			logger.Debugw("request body", "request_id", requestID, "data", string(body))
		}
	}
}
