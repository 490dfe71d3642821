// Package web provides the web server of the intern-evaluate panel:
// routing, session handling and background maintenance job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/Kagamine/InternEvaluate/config"
	"github.com/Kagamine/InternEvaluate/logger"
	"github.com/Kagamine/InternEvaluate/util/common"
	"github.com/Kagamine/InternEvaluate/web/controller"
	"github.com/Kagamine/InternEvaluate/web/job"
	"github.com/Kagamine/InternEvaluate/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server is the intern-evaluate web server with its controllers, services
// and scheduled maintenance jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	index      *controller.IndexController
	evaluation *controller.EvaluationController
	student    *controller.StudentController
	account    *controller.AccountController

	settingService service.SettingService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	basePath, err := s.settingService.GetBasePath()
	if err != nil {
		return nil, err
	}

	secret, err := s.settingService.GetSecret()
	if err != nil {
		return nil, err
	}

	store := cookie.NewStore([]byte(secret))
	engine.Use(sessions.Sessions("intern-evaluate", store))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", basePath)
	})

	g := engine.Group(basePath)
	s.index = controller.NewIndexController(g)
	s.evaluation = controller.NewEvaluationController(g)
	s.student = controller.NewStudentController(g)
	s.account = controller.NewAccountController(g)

	// 404 handler
	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewCheckpointJob())
	s.cron.AddJob("@daily", job.NewClearLogsJob())
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	loc, err := s.settingService.GetTimeLocation()
	if err != nil {
		return err
	}
	s.cron = cron.New(cron.WithLocation(loc), cron.WithSeconds())
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listen, err := s.settingService.GetListen()
	if err != nil {
		return err
	}
	port, err := s.settingService.GetPort()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(listen, strconv.Itoa(port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
