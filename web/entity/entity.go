// Package entity defines data structures shared by the web layer.
package entity

// Msg represents a standard API response with success status, message text, and optional data object.
type Msg struct {
	Success bool   `json:"success"` // Indicates if the operation was successful
	Msg     string `json:"msg"`     // Response message text
	Obj     any    `json:"obj"`     // Optional data object
}

// AllSetting contains the configurable settings of the panel.
type AllSetting struct {
	WebListen     string `json:"webListen" form:"webListen"`         // Web server listen IP address
	WebPort       int    `json:"webPort" form:"webPort"`             // Web server port number
	WebBasePath   string `json:"webBasePath" form:"webBasePath"`     // Base path for panel URLs
	SessionMaxAge int    `json:"sessionMaxAge" form:"sessionMaxAge"` // Session maximum age in minutes
	TimeLocation  string `json:"timeLocation" form:"timeLocation"`   // Location used by the job scheduler
}
