package service

import (
	"time"

	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/database/model"
	"github.com/Kagamine/InternEvaluate/logger"
	"github.com/Kagamine/InternEvaluate/util/crypto"
	"github.com/Kagamine/InternEvaluate/util/random"
	"github.com/Kagamine/InternEvaluate/web/session"

	"gorm.io/gorm"
)

const (
	minPasswordLength = 6
	resetTokenLength  = 32
	resetTokenTTL     = 15 * time.Minute
)

// UserService is the identity provider: it owns credential verification,
// password lifecycle and the role membership relation.
type UserService struct{}

// Authenticate verifies a username/password pair and returns the session
// identity on success, nil otherwise.
func (s *UserService) Authenticate(username string, password string) *session.Identity {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil
	}

	roles, err := s.RolesOf(user.Id)
	if err != nil {
		logger.Warning("load roles err:", err)
		return nil
	}

	return &session.Identity{
		UserId:        user.Id,
		Username:      user.Username,
		Name:          user.Name,
		Group:         user.Group,
		StudentNumber: user.StudentNumber,
		Roles:         roles,
	}
}

func (s *UserService) GetUser(id string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).Where("id = ?", id).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser stores a new user with the given raw password. Credential
// failures (empty or taken username, weak password) come back as
// CredentialError carrying the reason.
func (s *UserService) CreateUser(tx *gorm.DB, user *model.User, password string) error {
	if user.Username == "" {
		return newCredentialErrorf("username can not be empty")
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	var count int64
	err := tx.Model(model.User{}).Where("username = ?", user.Username).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return newCredentialErrorf("username %q is already taken", user.Username)
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return tx.Create(user).Error
}

// ChangePassword verifies the current password before storing the new one.
func (s *UserService) ChangePassword(userId string, oldPassword string, newPassword string) error {
	user, err := s.GetUser(userId)
	if err != nil {
		return err
	}
	if !crypto.CheckPasswordHash(user.PasswordHash, oldPassword) {
		return newCredentialErrorf("current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := crypto.HashPasswordAsBcrypt(newPassword)
	if err != nil {
		return err
	}
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", userId).
		Update("password_hash", hash).
		Error
}

// GenerateResetToken issues a short-lived single-use token for a password
// reset performed on the user's behalf.
func (s *UserService) GenerateResetToken(tx *gorm.DB, userId string) (string, error) {
	token := random.Seq(resetTokenLength)
	err := tx.Model(model.User{}).
		Where("id = ?", userId).
		Updates(map[string]any{
			"reset_token":        token,
			"reset_token_expiry": time.Now().Add(resetTokenTTL).Unix(),
		}).
		Error
	if err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *UserService) ResetPassword(tx *gorm.DB, userId string, token string, newPassword string) error {
	user := &model.User{}
	err := tx.Model(model.User{}).Where("id = ?", userId).First(user).Error
	if database.IsNotFound(err) {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	if token == "" || user.ResetToken != token {
		return newCredentialErrorf("invalid password reset token")
	}
	if time.Now().Unix() > user.ResetTokenExpiry {
		return newCredentialErrorf("password reset token has expired")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := crypto.HashPasswordAsBcrypt(newPassword)
	if err != nil {
		return err
	}
	return tx.Model(model.User{}).
		Where("id = ?", userId).
		Updates(map[string]any{
			"password_hash":      hash,
			"reset_token":        "",
			"reset_token_expiry": 0,
		}).
		Error
}

func (s *UserService) AddRole(tx *gorm.DB, userId string, role string) error {
	return tx.Where(model.UserRole{UserId: userId, Role: role}).
		FirstOrCreate(&model.UserRole{UserId: userId, Role: role}).
		Error
}

func (s *UserService) RemoveRole(tx *gorm.DB, userId string, role string) error {
	return tx.Where("user_id = ? AND role = ?", userId, role).
		Delete(model.UserRole{}).
		Error
}

func (s *UserService) IsInRole(userId string, role string) (bool, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.UserRole{}).
		Where("user_id = ? AND role = ?", userId, role).
		Count(&count).
		Error
	return count > 0, err
}

// UsersInRole returns every user holding the role, ordered by student number.
func (s *UserService) UsersInRole(role string) ([]model.User, error) {
	db := database.GetDB()
	users := make([]model.User, 0)
	err := db.Model(model.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role = ?", role).
		Order("users.student_number").
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) RolesOf(userId string) ([]string, error) {
	db := database.GetDB()
	roles := make([]string, 0)
	err := db.Model(model.UserRole{}).
		Where("user_id = ?", userId).
		Order("role").
		Pluck("role", &roles).
		Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// ResetDepartmentHeadPassword sets every department head's password to the
// given value. Used by the CLI when the panel password is lost.
func (s *UserService) ResetDepartmentHeadPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	heads, err := s.UsersInRole(model.RoleDepartmentHead)
	if err != nil {
		return err
	}
	if len(heads) == 0 {
		return ErrNotFound
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	db := database.GetDB()
	for _, head := range heads {
		err := db.Model(model.User{}).
			Where("id = ?", head.Id).
			Update("password_hash", hash).
			Error
		if err != nil {
			return err
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return newCredentialErrorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
