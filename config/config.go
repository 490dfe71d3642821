package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("IE_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("IE_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("IE_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/intern-evaluate"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("IE_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetInitialAdminPassword is the password assigned to the seeded
// department-head account when the users table is empty. Operators are
// expected to change it after the first login.
func GetInitialAdminPassword() string {
	password := os.Getenv("IE_ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
	}
	return password
}
