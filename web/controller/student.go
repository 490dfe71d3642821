package controller

import (
	"github.com/Kagamine/InternEvaluate/database/model"
	"github.com/Kagamine/InternEvaluate/web/middleware"
	"github.com/Kagamine/InternEvaluate/web/service"

	"github.com/gin-gonic/gin"
)

type createStudentForm struct {
	service.StudentForm
	Password string `json:"password" form:"password"`
	Position string `json:"position" form:"position"`
}

type editStudentForm struct {
	service.StudentForm
	Password string `json:"password" form:"password"`
	Position string `json:"position" form:"position"`
}

// StudentController serves the department-head surface: the roster report,
// student account management and the evaluation detail view.
type StudentController struct {
	BaseController

	studentService    service.StudentService
	reportService     service.ReportService
	evaluationService service.EvaluationService
	userService       service.UserService
}

func NewStudentController(g *gin.RouterGroup) *StudentController {
	a := &StudentController{}
	a.initRouter(g)
	return a
}

func (a *StudentController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/students")
	g.Use(a.checkLogin, middleware.RequireRole(model.RoleDepartmentHead))

	g.GET("", a.report)
	g.POST("", a.create)
	g.GET("/:id", a.get)
	g.POST("/:id", a.edit)
	g.POST("/:id/delete", a.delete)
	g.GET("/:id/detail", a.detail)
}

// report returns per-student counts of received comments by rating level.
func (a *StudentController) report(c *gin.Context) {
	summaries, err := a.reportService.StudentReport()
	jsonObj(c, summaries, err)
}

func (a *StudentController) create(c *gin.Context) {
	var form createStudentForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "invalid form data", err)
		return
	}

	user, err := a.studentService.CreateStudent(form.StudentForm, form.Password, form.Position)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	jsonObj(c, user, nil)
}

// get returns one student plus their current team-leader status, used to
// pre-fill the edit form.
func (a *StudentController) get(c *gin.Context) {
	id := c.Param("id")
	user, err := a.userService.GetUser(id)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	isTeamLeader, err := a.userService.IsInRole(id, model.RoleTeamLeader)
	if err != nil {
		jsonMsg(c, "load role", err)
		return
	}
	jsonObj(c, gin.H{
		"user":         user,
		"isTeamLeader": isTeamLeader,
	}, nil)
}

func (a *StudentController) edit(c *gin.Context) {
	id := c.Param("id")

	var form editStudentForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "invalid form data", err)
		return
	}

	user, err := a.studentService.EditStudent(id, form.StudentForm, form.Password, form.Position)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	jsonObj(c, user, nil)
}

func (a *StudentController) delete(c *gin.Context) {
	id := c.Param("id")
	if err := a.studentService.DeleteStudent(id); err != nil {
		jsonServiceError(c, err)
		return
	}
	jsonMsg(c, "student deleted", nil)
}

// detail returns one student with every received comment and its author.
func (a *StudentController) detail(c *gin.Context) {
	id := c.Param("id")
	detail, err := a.evaluationService.GetEvaluationDetail(id)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	jsonObj(c, detail, nil)
}
