package service

import (
	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/database/model"
	"github.com/Kagamine/InternEvaluate/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentForm carries the profile fields a department head may set.
type StudentForm struct {
	Username      string `json:"username" form:"username"`
	Name          string `json:"name" form:"name"`
	Class         string `json:"class" form:"class"`
	Group         string `json:"group" form:"group"`
	StudentNumber string `json:"studentNumber" form:"studentNumber"`
}

// StudentService orchestrates account management. Every multi-step
// operation runs inside a single transaction so a late credential failure
// cannot leave an earlier role change committed.
type StudentService struct {
	userService UserService
}

// CreateStudent creates the account, assigns the student role and, when the
// position says so, the team-leader role.
func (s *StudentService) CreateStudent(form StudentForm, password string, position string) (*model.User, error) {
	user := &model.User{
		Id:            uuid.NewString(),
		Username:      form.Username,
		Name:          form.Name,
		Class:         form.Class,
		Group:         form.Group,
		StudentNumber: form.StudentNumber,
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.userService.CreateUser(tx, user, password); err != nil {
			return err
		}
		if err := s.userService.AddRole(tx, user.Id, model.RoleStudent); err != nil {
			return err
		}
		if position == model.RoleTeamLeader {
			if err := s.userService.AddRole(tx, user.Id, model.RoleTeamLeader); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("created student %s (%s)", user.Username, user.Id)
	return user, nil
}

// EditStudent adjusts the team-leader role on every edit (added when the
// position indicates team-leader, removed otherwise), optionally resets the
// password through a reset token, then updates the profile fields.
func (s *StudentService) EditStudent(id string, form StudentForm, newPassword string, position string) (*model.User, error) {
	user, err := s.userService.GetUser(id)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if position == model.RoleTeamLeader {
			if err := s.userService.AddRole(tx, user.Id, model.RoleTeamLeader); err != nil {
				return err
			}
		} else {
			if err := s.userService.RemoveRole(tx, user.Id, model.RoleTeamLeader); err != nil {
				return err
			}
		}

		if newPassword != "" {
			token, err := s.userService.GenerateResetToken(tx, user.Id)
			if err != nil {
				return err
			}
			if err := s.userService.ResetPassword(tx, user.Id, token, newPassword); err != nil {
				return err
			}
		}

		return tx.Model(model.User{}).
			Where("id = ?", user.Id).
			Updates(map[string]any{
				"name":           form.Name,
				"class":          form.Class,
				"group_label":    form.Group,
				"student_number": form.StudentNumber,
			}).
			Error
	})
	if err != nil {
		return nil, err
	}

	return s.userService.GetUser(id)
}

// DeleteStudent removes the account together with its role rows and every
// comment the student authored or received.
func (s *StudentService) DeleteStudent(id string) error {
	user, err := s.userService.GetUser(id)
	if err != nil {
		return err
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluator_id = ? OR evaluated_id = ?", user.Id, user.Id).
			Delete(model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.Id).
			Delete(model.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id = ?", user.Id).Error
	})
	if err != nil {
		return err
	}

	logger.Infof("deleted student %s (%s)", user.Username, user.Id)
	return nil
}

// ChangeOwnPassword validates the confirmation before any credential check,
// then delegates to the identity provider.
func (s *StudentService) ChangeOwnPassword(userId string, currentPassword string, newPassword string, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	return s.userService.ChangePassword(userId, currentPassword, newPassword)
}
