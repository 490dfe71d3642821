package service

import (
	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/database/model"
)

// StudentSummary is one roster row of the department-head report: identity
// fields plus the number of received comments per rating level.
type StudentSummary struct {
	Id            string `json:"id"`
	StudentNumber string `json:"studentNumber"`
	Name          string `json:"name"`
	Class         string `json:"class"`
	Group         string `json:"group"`
	IsTeamLeader  bool   `json:"isTeamLeader"`

	// LevelCounts is indexed by model.Level: Fail through Excellent.
	LevelCounts [5]int `json:"levelCounts"`
}

// ReportService aggregates received comments into the roster report.
type ReportService struct {
	userService UserService
}

// BuildStudentReport partitions each student's received comments by rating
// level. It is pure: for a fixed roster and comment set the output is fully
// deterministic and preserves roster order.
func (s *ReportService) BuildStudentReport(roster []model.User, byEvaluated map[string][]model.Comment, teamLeaders map[string]bool) []StudentSummary {
	summaries := make([]StudentSummary, 0, len(roster))
	for _, user := range roster {
		summary := StudentSummary{
			Id:            user.Id,
			StudentNumber: user.StudentNumber,
			Name:          user.Name,
			Class:         user.Class,
			Group:         user.Group,
			IsTeamLeader:  teamLeaders[user.Id],
		}
		for _, comment := range byEvaluated[user.Id] {
			if comment.Level.IsValid() {
				summary.LevelCounts[comment.Level]++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// StudentReport loads the student roster ordered by student number together
// with all stored comments and builds the report.
func (s *ReportService) StudentReport() ([]StudentSummary, error) {
	roster, err := s.userService.UsersInRole(model.RoleStudent)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	comments := make([]model.Comment, 0)
	if err := db.Model(model.Comment{}).Find(&comments).Error; err != nil {
		return nil, err
	}
	byEvaluated := make(map[string][]model.Comment)
	for _, comment := range comments {
		byEvaluated[comment.EvaluatedId] = append(byEvaluated[comment.EvaluatedId], comment)
	}

	leaders, err := s.userService.UsersInRole(model.RoleTeamLeader)
	if err != nil {
		return nil, err
	}
	teamLeaders := make(map[string]bool, len(leaders))
	for _, leader := range leaders {
		teamLeaders[leader.Id] = true
	}

	return s.BuildStudentReport(roster, byEvaluated, teamLeaders), nil
}
