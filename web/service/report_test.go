package service

import (
	"testing"

	"github.com/Kagamine/InternEvaluate/database/model"

	"github.com/stretchr/testify/assert"
)

func TestBuildStudentReport(t *testing.T) {
	roster := []model.User{
		{Id: "a", Name: "A", StudentNumber: "1", Class: "c1", Group: "g1"},
		{Id: "b", Name: "B", StudentNumber: "2", Class: "c1", Group: "g1"},
		{Id: "c", Name: "C", StudentNumber: "3", Class: "c1", Group: "g2"},
	}
	byEvaluated := map[string][]model.Comment{
		"a": {
			{EvaluatedId: "a", Level: model.LevelExcellent},
			{EvaluatedId: "a", Level: model.LevelExcellent},
			{EvaluatedId: "a", Level: model.LevelPass},
		},
		"c": {
			{EvaluatedId: "c", Level: model.LevelFail},
		},
	}
	teamLeaders := map[string]bool{"b": true}

	reportService := ReportService{}
	summaries := reportService.BuildStudentReport(roster, byEvaluated, teamLeaders)

	assert.Len(t, summaries, 3)

	// Roster order is preserved.
	assert.Equal(t, "a", summaries[0].Id)
	assert.Equal(t, "b", summaries[1].Id)
	assert.Equal(t, "c", summaries[2].Id)

	assert.Equal(t, [5]int{0, 1, 0, 0, 2}, summaries[0].LevelCounts)
	assert.Equal(t, [5]int{0, 0, 0, 0, 0}, summaries[1].LevelCounts)
	assert.Equal(t, [5]int{1, 0, 0, 0, 0}, summaries[2].LevelCounts)

	assert.False(t, summaries[0].IsTeamLeader)
	assert.True(t, summaries[1].IsTeamLeader)
	assert.False(t, summaries[2].IsTeamLeader)
}

func TestBuildStudentReportDeterministic(t *testing.T) {
	roster := []model.User{
		{Id: "x", StudentNumber: "1"},
		{Id: "y", StudentNumber: "2"},
	}
	byEvaluated := map[string][]model.Comment{
		"x": {{EvaluatedId: "x", Level: model.LevelAverage}},
	}

	reportService := ReportService{}
	first := reportService.BuildStudentReport(roster, byEvaluated, nil)
	second := reportService.BuildStudentReport(roster, byEvaluated, nil)
	assert.Equal(t, first, second)
}

func TestStudentReport(t *testing.T) {
	setup()
	defer teardown()

	evaluated := mustCreateStudent(t, "anna", "2016102", "g1", "")
	leader := mustCreateStudent(t, "boris", "2016101", "g1", model.RoleTeamLeader)
	peer := mustCreateStudent(t, "clara", "2016103", "g1", "")

	evaluationService := EvaluationService{}
	_, err := evaluationService.SubmitEvaluation(leader.Id, evaluated.Id, model.LevelExcellent, "great", true)
	assert.NoError(t, err)
	_, err = evaluationService.SubmitEvaluation(peer.Id, evaluated.Id, model.LevelPass, "fine", false)
	assert.NoError(t, err)

	reportService := ReportService{}
	summaries, err := reportService.StudentReport()
	assert.NoError(t, err)

	// The seeded department head holds no student role and must not appear.
	assert.Len(t, summaries, 3)

	// Ordered by student number.
	assert.Equal(t, leader.Id, summaries[0].Id)
	assert.Equal(t, evaluated.Id, summaries[1].Id)
	assert.Equal(t, peer.Id, summaries[2].Id)

	assert.True(t, summaries[0].IsTeamLeader)
	assert.Equal(t, [5]int{0, 0, 0, 0, 0}, summaries[0].LevelCounts)

	assert.False(t, summaries[1].IsTeamLeader)
	assert.Equal(t, [5]int{0, 1, 0, 0, 1}, summaries[1].LevelCounts)

	assert.Equal(t, [5]int{0, 0, 0, 0, 0}, summaries[2].LevelCounts)
}
