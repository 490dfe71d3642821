package service

import (
	"os"
	"testing"

	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/database/model"
	"github.com/Kagamine/InternEvaluate/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func setup() {
	logger.InitLogger(logging.DEBUG)
	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

const testPassword = "secret123"

func mustCreateStudent(t *testing.T, username, number, group, position string) *model.User {
	t.Helper()
	studentService := StudentService{}
	user, err := studentService.CreateStudent(StudentForm{
		Username:      username,
		Name:          "Student " + username,
		Class:         "SE-1601",
		Group:         group,
		StudentNumber: number,
	}, testPassword, position)
	assert.NoError(t, err)
	assert.NotNil(t, user)
	return user
}

func commentCount(t *testing.T, evaluatorId, evaluatedId string) int64 {
	t.Helper()
	var count int64
	err := database.GetDB().Model(model.Comment{}).
		Where("evaluator_id = ? AND evaluated_id = ?", evaluatorId, evaluatedId).
		Count(&count).
		Error
	assert.NoError(t, err)
	return count
}
