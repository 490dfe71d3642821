// Package controller provides the HTTP request handlers of the
// intern-evaluate panel: login and session handling, peer evaluation,
// roster reporting and student account management.
package controller

import (
	"net/http"

	"github.com/Kagamine/InternEvaluate/web/entity"
	"github.com/Kagamine/InternEvaluate/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

// checkLogin is a middleware that rejects unauthenticated requests.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
			Success: false,
			Msg:     "login required",
		})
		return
	}
	c.Next()
}
