package app

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rawen554/mijikaku/internal/config"
	"github.com/rawen554/mijikaku/internal/logic"
	"github.com/rawen554/mijikaku/internal/models"
	"go.uber.org/zap"
)

const ErrorDecodeBody = "Body cannot be decoded"

type App struct {
	config    *config.ServerConfig
	coreLogic *logic.CoreLogic
	logger    *zap.SugaredLogger
}

func NewApp(config *config.ServerConfig, coreLogic *logic.CoreLogic, logger *zap.SugaredLogger) *App {
	return &App{
		config:    config,
		coreLogic: coreLogic,
		logger:    logger,
	}
}

func (a *App) RedirectToOriginal(c *gin.Context) {
	originalURL, err := a.coreLogic.GetOriginalURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, originalURL)
}

func (a *App) ShortenURL(c *gin.Context) {
	var req models.ShortenReq
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		a.logger.Debugf("%s: %v", ErrorDecodeBody, err)
		a.writeError(c, &logic.Error{Kind: logic.KindInvalidURL, Message: ErrorDecodeBody, Err: err})
		return
	}

	result, err := a.coreLogic.ShortenURL(c.Request.Context(), req.URL)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.String(http.StatusOK, result)
}

func (a *App) Ping(c *gin.Context) {
	if err := a.coreLogic.Ping(c.Request.Context()); err != nil {
		a.writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
