package session

import (
	"encoding/gob"
	"slices"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginUser = "LOGIN_USER"

// Identity is the authenticated caller as seen by the web layer. It is read
// from the session once per request and passed into services explicitly.
type Identity struct {
	UserId        string
	Username      string
	Name          string
	Group         string
	StudentNumber string
	Roles         []string
}

// HasRole reports whether the identity holds the given role.
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

func init() {
	gob.Register(Identity{})
}

func SetLoginIdentity(c *gin.Context, identity *Identity) error {
	s := sessions.Default(c)
	s.Set(loginUser, *identity)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: maxAge,
	})
	return s.Save()
}

func GetLoginIdentity(c *gin.Context) *Identity {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if identity, ok := obj.(Identity); ok {
			return &identity
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginIdentity(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie("intern-evaluate", "", -1, "/", "", false, true)
	return nil
}
