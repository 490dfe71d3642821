package service

import (
	"testing"

	"github.com/Kagamine/InternEvaluate/database/model"

	"github.com/stretchr/testify/assert"
)

func TestCreateStudentAssignsRoles(t *testing.T) {
	setup()
	defer teardown()

	userService := UserService{}

	student := mustCreateStudent(t, "uma", "2016201", "g1", "")
	isStudent, err := userService.IsInRole(student.Id, model.RoleStudent)
	assert.NoError(t, err)
	assert.True(t, isStudent)
	isLeader, err := userService.IsInRole(student.Id, model.RoleTeamLeader)
	assert.NoError(t, err)
	assert.False(t, isLeader)

	leader := mustCreateStudent(t, "vic", "2016202", "g1", model.RoleTeamLeader)
	isLeader, err = userService.IsInRole(leader.Id, model.RoleTeamLeader)
	assert.NoError(t, err)
	assert.True(t, isLeader)

	// Created students can log in right away.
	identity := userService.Authenticate("uma", testPassword)
	assert.NotNil(t, identity)
	assert.Equal(t, student.Id, identity.UserId)
	assert.True(t, identity.HasRole(model.RoleStudent))
}

func TestCreateStudentCredentialFailures(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}

	mustCreateStudent(t, "walt", "2016203", "g1", "")

	// Duplicate username.
	_, err := studentService.CreateStudent(StudentForm{Username: "walt"}, testPassword, "")
	assert.True(t, IsCredentialError(err))

	// Weak password.
	_, err = studentService.CreateStudent(StudentForm{Username: "xena"}, "abc", "")
	assert.True(t, IsCredentialError(err))

	// Empty username.
	_, err = studentService.CreateStudent(StudentForm{}, testPassword, "")
	assert.True(t, IsCredentialError(err))

	// A failed create must not leave a half-created account behind.
	_, err = studentService.userService.GetUserByUsername("xena")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditStudentTogglesTeamLeaderRole(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}
	userService := UserService{}

	student := mustCreateStudent(t, "yuri", "2016204", "g1", "")
	form := StudentForm{
		Name:          "Student yuri",
		Class:         "SE-1601",
		Group:         "g1",
		StudentNumber: "2016204",
	}

	_, err := studentService.EditStudent(student.Id, form, "", model.RoleTeamLeader)
	assert.NoError(t, err)
	isLeader, err := userService.IsInRole(student.Id, model.RoleTeamLeader)
	assert.NoError(t, err)
	assert.True(t, isLeader)

	// Any other position removes the role again.
	_, err = studentService.EditStudent(student.Id, form, "", "")
	assert.NoError(t, err)
	isLeader, err = userService.IsInRole(student.Id, model.RoleTeamLeader)
	assert.NoError(t, err)
	assert.False(t, isLeader)
}

func TestEditStudentUpdatesProfileAndPassword(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}
	userService := UserService{}

	student := mustCreateStudent(t, "zoe", "2016205", "g1", "")

	updated, err := studentService.EditStudent(student.Id, StudentForm{
		Name:          "Zoe Z",
		Class:         "SE-1602",
		Group:         "g2",
		StudentNumber: "2016999",
	}, "changed456", "")
	assert.NoError(t, err)
	assert.Equal(t, "Zoe Z", updated.Name)
	assert.Equal(t, "SE-1602", updated.Class)
	assert.Equal(t, "g2", updated.Group)
	assert.Equal(t, "2016999", updated.StudentNumber)

	// Old password no longer works, the new one does.
	assert.Nil(t, userService.Authenticate("zoe", testPassword))
	assert.NotNil(t, userService.Authenticate("zoe", "changed456"))

	// The consumed reset token is cleared.
	stored, err := userService.GetUser(student.Id)
	assert.NoError(t, err)
	assert.Empty(t, stored.ResetToken)
}

func TestEditStudentWeakPasswordRollsBackRoleChange(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}
	userService := UserService{}

	student := mustCreateStudent(t, "abel", "2016206", "g1", "")

	_, err := studentService.EditStudent(student.Id, StudentForm{}, "abc", model.RoleTeamLeader)
	assert.True(t, IsCredentialError(err))

	// The role grant from the same request must not survive the failure.
	isLeader, err := userService.IsInRole(student.Id, model.RoleTeamLeader)
	assert.NoError(t, err)
	assert.False(t, isLeader)
}

func TestEditStudentNotFound(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}
	_, err := studentService.EditStudent("no-such-id", StudentForm{}, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStudentCascadesComments(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}
	userService := UserService{}
	evaluationService := EvaluationService{}

	victim := mustCreateStudent(t, "bert", "2016207", "g1", "")
	peer := mustCreateStudent(t, "cody", "2016208", "g1", "")

	_, err := evaluationService.SubmitEvaluation(victim.Id, peer.Id, model.LevelGood, "authored", false)
	assert.NoError(t, err)
	_, err = evaluationService.SubmitEvaluation(peer.Id, victim.Id, model.LevelPass, "received", false)
	assert.NoError(t, err)

	assert.NoError(t, studentService.DeleteStudent(victim.Id))

	_, err = userService.GetUser(victim.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Comments in both directions are gone, the peer's other rows stay.
	assert.Equal(t, int64(0), commentCount(t, victim.Id, peer.Id))
	assert.Equal(t, int64(0), commentCount(t, peer.Id, victim.Id))

	roles, err := userService.RolesOf(victim.Id)
	assert.NoError(t, err)
	assert.Empty(t, roles)
}

func TestDeleteStudentNotFound(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}
	assert.ErrorIs(t, studentService.DeleteStudent("no-such-id"), ErrNotFound)
}

func TestChangeOwnPassword(t *testing.T) {
	setup()
	defer teardown()

	studentService := StudentService{}
	userService := UserService{}

	student := mustCreateStudent(t, "dina", "2016209", "g1", "")

	// Mismatched confirmation fails before any credential check, even with
	// a wrong current password.
	err := studentService.ChangeOwnPassword(student.Id, "wrong-current", "new1", "new2")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	// Wrong current password.
	err = studentService.ChangeOwnPassword(student.Id, "wrong-current", "changed456", "changed456")
	assert.True(t, IsCredentialError(err))

	// Success.
	err = studentService.ChangeOwnPassword(student.Id, testPassword, "changed456", "changed456")
	assert.NoError(t, err)
	assert.Nil(t, userService.Authenticate("dina", testPassword))
	assert.NotNil(t, userService.Authenticate("dina", "changed456"))
}
