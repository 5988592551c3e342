package compress

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rawen554/mijikaku/internal/models"
	"go.uber.org/zap"
)

const (
	gzipEncoding  = "gzip"
	ErrorGzipBody = "Request body is not valid gzip"
)

var compressibleTypes = []string{"application/json", "text/plain", "text/html"}

// compressWriter picks compression on the first body write, once the handler has set
// the content type. Responses without a body are passed through untouched.
type compressWriter struct {
	gin.ResponseWriter
	zw      *gzip.Writer
	decided bool
}

func newCompressWriter(w gin.ResponseWriter) *compressWriter {
	return &compressWriter{ResponseWriter: w}
}

func (c *compressWriter) decide() {
	if c.decided {
		return
	}
	c.decided = true

	if !compressible(c.Header().Get("Content-Type")) {
		return
	}
	h := c.Header()
	h.Set("Content-Encoding", gzipEncoding)
	h.Add("Vary", "Accept-Encoding")
	h.Del("Content-Length")
	c.zw = gzip.NewWriter(c.ResponseWriter)
}

func (c *compressWriter) Write(p []byte) (int, error) {
	c.decide()
	if c.zw == nil {
		return c.ResponseWriter.Write(p)
	}
	return c.zw.Write(p)
}

func (c *compressWriter) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// Close flushes the gzip footer if compression was started.
func (c *compressWriter) Close() error {
	if c.zw == nil {
		return nil
	}
	return c.zw.Close()
}

type compressReader struct {
	io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) (*compressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &compressReader{
		ReadCloser: r,
		zr:         zr,
	}, nil
}

func (c *compressReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

func (c *compressReader) Close() error {
	if err := c.zr.Close(); err != nil {
		return err
	}
	return c.ReadCloser.Close()
}

func compressible(contentType string) bool {
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func Compress(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.Contains(c.Request.Header.Get("Content-Encoding"), gzipEncoding) {
			cr, err := newCompressReader(c.Request.Body)
			if err != nil {
				logger.Errorf("error reading gzip body: %v", err)
				c.AbortWithStatusJSON(http.StatusBadRequest, models.APIError{
					Message:    ErrorGzipBody,
					StatusCode: http.StatusBadRequest,
				})
				return
			}
			c.Request.Body = cr
			defer func() {
				if err := cr.Close(); err != nil {
					logger.Errorf("error closing gzip reader: %v", err)
				}
			}()
		}

		if strings.Contains(c.Request.Header.Get("Accept-Encoding"), gzipEncoding) {
			cw := newCompressWriter(c.Writer)
			c.Writer = cw
			defer func() {
				if err := cw.Close(); err != nil {
					logger.Errorf("error closing gzip writer: %v", err)
				}
			}()
		}

		c.Next()
	}
}
