package controller

import (
	"net/http"
	"text/template"

	"github.com/Kagamine/InternEvaluate/logger"
	"github.com/Kagamine/InternEvaluate/web/service"
	"github.com/Kagamine/InternEvaluate/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// IndexController handles login, logout and the session probe.
type IndexController struct {
	BaseController

	settingService service.SettingService
	userService    service.UserService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/me", a.me)
	g.GET("/logout", a.logout)

	g.POST("/login", a.login)
}

// me reports the current session identity so the client can decide which
// views to offer.
func (a *IndexController) me(c *gin.Context) {
	identity := session.GetLoginIdentity(c)
	if identity == nil {
		pureJsonMsg(c, http.StatusUnauthorized, false, "login required")
		return
	}
	jsonObj(c, identity, nil)
}

// login handles user authentication and session creation.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid form data")
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusOK, false, "username can not be empty")
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, "password can not be empty")
		return
	}

	identity := a.userService.Authenticate(form.Username, form.Password)
	safeUser := template.HTMLEscapeString(form.Username)

	if identity == nil {
		logger.Warningf("wrong username or password for \"%s\", IP: \"%s\"", safeUser, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, "wrong username or password")
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("Unable to get session's max age from DB")
	}

	session.SetMaxAge(c, sessionMaxAge*60)
	session.SetLoginIdentity(c, identity)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session: ", err)
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", safeUser, getRemoteIp(c))
	jsonMsg(c, "login successful", nil)
}

// logout clears the session.
func (a *IndexController) logout(c *gin.Context) {
	identity := session.GetLoginIdentity(c)
	if identity != nil {
		logger.Infof("%s logged out successfully", identity.Username)
	}
	session.ClearSession(c)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}
