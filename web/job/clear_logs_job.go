package job

import (
	"os"

	"github.com/Kagamine/InternEvaluate/logger"
)

// ClearLogsJob truncates the panel log file so it does not grow without bound.
type ClearLogsJob struct{}

func NewClearLogsJob() *ClearLogsJob {
	return new(ClearLogsJob)
}

// Here Run is an interface method of the Job interface
func (j *ClearLogsJob) Run() {
	if err := os.Truncate(logger.GetLogFilePath(), 0); err != nil {
		logger.Warning("clear logs job err:", err)
	}
}
