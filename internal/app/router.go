package app

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rawen554/mijikaku/internal/middleware/compress"
	ginLogger "github.com/rawen554/mijikaku/internal/middleware/logger"
)

const (
	rootPath     = "/"
	pingPath     = "/ping"
	redirectPath = "/:id"
)

func (a *App) SetupRouter() *gin.Engine {
	r := gin.New()
	if a.config.ProfileMode {
		pprof.Register(r)
	}

	r.Use(ginLogger.Logger(a.logger.Named("middleware")))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		a.logger.Errorf("panic recovered: %v", recovered)
		abortWithError(c, http.StatusInternalServerError, internalErrorMessage)
	}))
	r.Use(compress.Compress(a.logger.Named("compress")))

	r.POST(rootPath, a.ShortenURL)
	r.GET(pingPath, a.Ping)
	r.GET(redirectPath, a.RedirectToOriginal)

	return r
}
