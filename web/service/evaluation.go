package service

import (
	"errors"
	"strings"

	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/database/model"
	"github.com/Kagamine/InternEvaluate/logger"
	"github.com/Kagamine/InternEvaluate/web/session"

	"gorm.io/gorm"
)

// EvaluationService enforces who may evaluate whom and the
// one-comment-per-(evaluator, evaluated) invariant.
type EvaluationService struct {
	userService UserService
}

// SubmitEvaluation validates and applies a single evaluation. An existing
// comment for the pair is overwritten in place; otherwise a new comment is
// created with the evaluator's team-leader status frozen at creation time.
func (s *EvaluationService) SubmitEvaluation(evaluatorId string, evaluatedId string, level model.Level, content string, evaluatorIsTeamLeader bool) (*model.Comment, error) {
	if !level.IsValid() {
		return nil, ErrInvalidLevel
	}

	evaluated, err := s.userService.GetUser(evaluatedId)
	if err != nil {
		return nil, err
	}
	evaluator, err := s.userService.GetUser(evaluatorId)
	if err != nil {
		return nil, err
	}
	if evaluated.Id == evaluator.Id || evaluated.Group != evaluator.Group {
		return nil, ErrInvalidTarget
	}

	db := database.GetDB()
	comment := &model.Comment{}
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(model.Comment{}).
			Where("evaluator_id = ? AND evaluated_id = ?", evaluatorId, evaluatedId).
			First(comment).
			Error
		if database.IsNotFound(err) {
			comment = &model.Comment{
				EvaluatorId:      evaluatorId,
				EvaluatedId:      evaluatedId,
				Level:            level,
				Content:          content,
				IsFromTeamLeader: evaluatorIsTeamLeader,
			}
			createErr := tx.Create(comment).Error
			if createErr == nil {
				return nil
			}
			if !isUniqueViolation(createErr) {
				return createErr
			}
			// Lost a race against a concurrent submission for the same
			// pair: the unique index rejected the insert, so the row now
			// exists and the submission becomes an update.
			logger.Debugf("duplicate comment for pair (%s, %s), retrying as update", evaluatorId, evaluatedId)
			if err := tx.Model(model.Comment{}).
				Where("evaluator_id = ? AND evaluated_id = ?", evaluatorId, evaluatedId).
				First(comment).
				Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		comment.Level = level
		comment.Content = content
		return tx.Save(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListPeersForEvaluation returns every user sharing the caller's group,
// excluding the caller, ordered by student number.
func (s *EvaluationService) ListPeersForEvaluation(identity *session.Identity) ([]model.User, error) {
	db := database.GetDB()
	peers := make([]model.User, 0)
	err := db.Model(model.User{}).
		Where("group_label = ? AND id != ?", identity.Group, identity.UserId).
		Order("student_number").
		Find(&peers).
		Error
	if err != nil {
		return nil, err
	}
	return peers, nil
}

// PeerForEvaluation resolves an evaluation target for the caller, applying
// the same existence and grouping checks as SubmitEvaluation.
func (s *EvaluationService) PeerForEvaluation(identity *session.Identity, evaluatedId string) (*model.User, error) {
	evaluated, err := s.userService.GetUser(evaluatedId)
	if err != nil {
		return nil, err
	}
	if evaluated.Id == identity.UserId || evaluated.Group != identity.Group {
		return nil, ErrInvalidTarget
	}
	return evaluated, nil
}

// GetExistingComment is a pure lookup used to pre-fill the edit form.
// It returns nil, nil when no comment exists for the pair.
func (s *EvaluationService) GetExistingComment(evaluatorId string, evaluatedId string) (*model.Comment, error) {
	db := database.GetDB()
	comment := &model.Comment{}
	err := db.Model(model.Comment{}).
		Where("evaluator_id = ? AND evaluated_id = ?", evaluatorId, evaluatedId).
		First(comment).
		Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return comment, nil
}

// CommentsAuthoredBy returns the comments the user has written about peers.
func (s *EvaluationService) CommentsAuthoredBy(userId string) ([]model.Comment, error) {
	db := database.GetDB()
	comments := make([]model.Comment, 0)
	err := db.Model(model.Comment{}).
		Where("evaluator_id = ?", userId).
		Find(&comments).
		Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentsReceivedBy returns the comments written about the user.
func (s *EvaluationService) CommentsReceivedBy(userId string) ([]model.Comment, error) {
	db := database.GetDB()
	comments := make([]model.Comment, 0)
	err := db.Model(model.Comment{}).
		Where("evaluated_id = ?", userId).
		Find(&comments).
		Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ReceivedComment is one received evaluation with its author resolved.
type ReceivedComment struct {
	Id                     int         `json:"id"`
	EvaluatorId            string      `json:"evaluatorId"`
	EvaluatorName          string      `json:"evaluatorName"`
	EvaluatorStudentNumber string      `json:"evaluatorStudentNumber"`
	Level                  model.Level `json:"level"`
	LevelName              string      `json:"levelName"`
	Content                string      `json:"content"`
	IsFromTeamLeader       bool        `json:"isFromTeamLeader"`
}

// EvaluationDetail is the department-head detail view of one student.
type EvaluationDetail struct {
	User     model.User        `json:"user"`
	Comments []ReceivedComment `json:"comments"`
}

// GetEvaluationDetail returns a student together with every comment they
// received, each annotated with its author's name and student number.
func (s *EvaluationService) GetEvaluationDetail(userId string) (*EvaluationDetail, error) {
	user, err := s.userService.GetUser(userId)
	if err != nil {
		return nil, err
	}
	comments, err := s.CommentsReceivedBy(userId)
	if err != nil {
		return nil, err
	}

	evaluatorIds := make([]string, 0, len(comments))
	for _, comment := range comments {
		evaluatorIds = append(evaluatorIds, comment.EvaluatorId)
	}

	evaluators := make(map[string]model.User, len(evaluatorIds))
	if len(evaluatorIds) > 0 {
		db := database.GetDB()
		users := make([]model.User, 0, len(evaluatorIds))
		if err := db.Model(model.User{}).Where("id IN ?", evaluatorIds).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			evaluators[u.Id] = u
		}
	}

	detail := &EvaluationDetail{
		User:     *user,
		Comments: make([]ReceivedComment, 0, len(comments)),
	}
	for _, comment := range comments {
		evaluator := evaluators[comment.EvaluatorId]
		detail.Comments = append(detail.Comments, ReceivedComment{
			Id:                     comment.Id,
			EvaluatorId:            comment.EvaluatorId,
			EvaluatorName:          evaluator.Name,
			EvaluatorStudentNumber: evaluator.StudentNumber,
			Level:                  comment.Level,
			LevelName:              comment.Level.String(),
			Content:                comment.Content,
			IsFromTeamLeader:       comment.IsFromTeamLeader,
		})
	}
	return detail, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
