package controller

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/Kagamine/InternEvaluate/logger"
	"github.com/Kagamine/InternEvaluate/web/entity"
	"github.com/Kagamine/InternEvaluate/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a JSON response with a message and error status.
func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

// jsonMsgObj sends a JSON response with a message, object, and error status.
func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
	} else {
		m.Success = false
		m.Msg = msg + " (" + err.Error() + ")"
		logger.Warning(msg+" failed: ", err)
	}
	c.JSON(http.StatusOK, m)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// jsonServiceError maps service failures onto HTTP responses: missing
// records become 404, invalid targets and levels 400, credential and
// confirmation failures come back as a failed 200 envelope carrying the
// message so the form can be re-rendered with it.
func jsonServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		pureJsonMsg(c, http.StatusNotFound, false, err.Error())
	case errors.Is(err, service.ErrInvalidTarget), errors.Is(err, service.ErrInvalidLevel):
		pureJsonMsg(c, http.StatusBadRequest, false, err.Error())
	case errors.Is(err, service.ErrPasswordMismatch), service.IsCredentialError(err):
		pureJsonMsg(c, http.StatusOK, false, err.Error())
	default:
		jsonMsg(c, "unexpected error", err)
	}
}
