package controller

import (
	"github.com/Kagamine/InternEvaluate/database/model"
	"github.com/Kagamine/InternEvaluate/web/middleware"
	"github.com/Kagamine/InternEvaluate/web/service"
	"github.com/Kagamine/InternEvaluate/web/session"

	"github.com/gin-gonic/gin"
)

// EvaluationForm is a single evaluation submission.
type EvaluationForm struct {
	Level   int    `json:"level" form:"level"`
	Content string `json:"content" form:"content"`
}

// EvaluationController serves the peer evaluation workflow for students.
type EvaluationController struct {
	BaseController

	evaluationService service.EvaluationService
}

func NewEvaluationController(g *gin.RouterGroup) *EvaluationController {
	a := &EvaluationController{}
	a.initRouter(g)
	return a
}

func (a *EvaluationController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/evaluate")
	g.Use(a.checkLogin)

	// The peer list is visible to anyone logged in; submitting requires the
	// student role.
	g.GET("/peers", a.peers)

	student := g.Group("", middleware.RequireRole(model.RoleStudent))
	student.GET("/:id", a.show)
	student.POST("/:id", a.submit)
}

// peers lists the caller's group mates, the roster a student picks an
// evaluation target from.
func (a *EvaluationController) peers(c *gin.Context) {
	identity := session.GetLoginIdentity(c)
	peers, err := a.evaluationService.ListPeersForEvaluation(identity)
	jsonObj(c, peers, err)
}

// show resolves the target and the caller's existing comment about them, if
// any, to pre-fill the evaluation form.
func (a *EvaluationController) show(c *gin.Context) {
	identity := session.GetLoginIdentity(c)
	id := c.Param("id")

	target, err := a.evaluationService.PeerForEvaluation(identity, id)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	comment, err := a.evaluationService.GetExistingComment(identity.UserId, id)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	jsonObj(c, gin.H{
		"user": gin.H{
			"id":            target.Id,
			"name":          target.Name,
			"studentNumber": target.StudentNumber,
		},
		"comment": comment,
	}, nil)
}

// submit creates or overwrites the caller's evaluation of the target.
func (a *EvaluationController) submit(c *gin.Context) {
	identity := session.GetLoginIdentity(c)
	id := c.Param("id")

	var form EvaluationForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "invalid form data", err)
		return
	}

	comment, err := a.evaluationService.SubmitEvaluation(
		identity.UserId,
		id,
		model.Level(form.Level),
		form.Content,
		identity.HasRole(model.RoleTeamLeader),
	)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	jsonObj(c, comment, nil)
}
