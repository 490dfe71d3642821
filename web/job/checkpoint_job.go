package job

import (
	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/logger"
)

// CheckpointJob flushes the sqlite WAL back into the main database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

// Here Run is an interface method of the Job interface
func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
	}
}
