package service

import (
	"testing"
	"time"

	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/database/model"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticateSeededDepartmentHead(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}

	identity := userService.Authenticate("admin", "admin")
	assert.NotNil(t, identity)
	assert.Equal(t, "admin", identity.Username)
	assert.True(t, identity.HasRole(model.RoleDepartmentHead))

	assert.Nil(t, userService.Authenticate("admin", "wrong"))
	assert.Nil(t, userService.Authenticate("nobody", "admin"))
}

func TestRoleRelation(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	db := database.GetDB()

	student := mustCreateStudent(t, "emma", "2016301", "g1", "")

	assert.NoError(t, userService.AddRole(db, student.Id, model.RoleTeamLeader))
	// Granting an already-held role is a no-op, not a duplicate row.
	assert.NoError(t, userService.AddRole(db, student.Id, model.RoleTeamLeader))

	roles, err := userService.RolesOf(student.Id)
	assert.NoError(t, err)
	assert.Equal(t, []string{model.RoleStudent, model.RoleTeamLeader}, roles)

	leaders, err := userService.UsersInRole(model.RoleTeamLeader)
	assert.NoError(t, err)
	assert.Len(t, leaders, 1)
	assert.Equal(t, student.Id, leaders[0].Id)

	assert.NoError(t, userService.RemoveRole(db, student.Id, model.RoleTeamLeader))
	isLeader, err := userService.IsInRole(student.Id, model.RoleTeamLeader)
	assert.NoError(t, err)
	assert.False(t, isLeader)
}

func TestUsersInRoleOrderedByStudentNumber(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}

	mustCreateStudent(t, "fred", "2016303", "g1", "")
	mustCreateStudent(t, "gail", "2016301", "g1", "")
	mustCreateStudent(t, "hank", "2016302", "g2", "")

	students, err := userService.UsersInRole(model.RoleStudent)
	assert.NoError(t, err)
	assert.Len(t, students, 3)
	assert.Equal(t, "gail", students[0].Username)
	assert.Equal(t, "hank", students[1].Username)
	assert.Equal(t, "fred", students[2].Username)
}

func TestResetPasswordTokenFlow(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	db := database.GetDB()

	student := mustCreateStudent(t, "ivan", "2016304", "g1", "")

	token, err := userService.GenerateResetToken(db, student.Id)
	assert.NoError(t, err)
	assert.Len(t, token, resetTokenLength)

	// Wrong token is rejected.
	err = userService.ResetPassword(db, student.Id, "bogus", "changed456")
	assert.True(t, IsCredentialError(err))

	// The real token works exactly once.
	assert.NoError(t, userService.ResetPassword(db, student.Id, token, "changed456"))
	assert.NotNil(t, userService.Authenticate("ivan", "changed456"))

	err = userService.ResetPassword(db, student.Id, token, "changed789")
	assert.True(t, IsCredentialError(err))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}
	db := database.GetDB()

	student := mustCreateStudent(t, "jack", "2016305", "g1", "")

	token, err := userService.GenerateResetToken(db, student.Id)
	assert.NoError(t, err)

	// Backdate the expiry.
	err = db.Model(model.User{}).
		Where("id = ?", student.Id).
		Update("reset_token_expiry", time.Now().Add(-time.Minute).Unix()).
		Error
	assert.NoError(t, err)

	err = userService.ResetPassword(db, student.Id, token, "changed456")
	assert.True(t, IsCredentialError(err))
}

func TestChangePasswordPolicy(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}

	student := mustCreateStudent(t, "kate", "2016306", "g1", "")

	err := userService.ChangePassword(student.Id, testPassword, "abc")
	assert.True(t, IsCredentialError(err))

	err = userService.ChangePassword("no-such-id", testPassword, "changed456")
	assert.ErrorIs(t, err, ErrNotFound)
}
