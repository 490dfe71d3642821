package controller

import (
	"github.com/Kagamine/InternEvaluate/logger"
	"github.com/Kagamine/InternEvaluate/web/service"
	"github.com/Kagamine/InternEvaluate/web/session"

	"github.com/gin-gonic/gin"
)

type changePasswordForm struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// AccountController lets any authenticated user change their own password.
type AccountController struct {
	BaseController

	studentService service.StudentService
}

func NewAccountController(g *gin.RouterGroup) *AccountController {
	a := &AccountController{}
	a.initRouter(g)
	return a
}

func (a *AccountController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/account")
	g.Use(a.checkLogin)

	g.POST("/password", a.changePassword)
}

// changePassword verifies and applies the caller's password change, then
// invalidates the session so they have to log in again.
func (a *AccountController) changePassword(c *gin.Context) {
	identity := session.GetLoginIdentity(c)

	var form changePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "invalid form data", err)
		return
	}

	err := a.studentService.ChangeOwnPassword(identity.UserId, form.CurrentPassword, form.NewPassword, form.ConfirmPassword)
	if err != nil {
		jsonServiceError(c, err)
		return
	}

	logger.Infof("%s changed password, session cleared", identity.Username)
	session.ClearSession(c)
	jsonMsg(c, "password changed, please log in again", nil)
}
