package output

import "time"

// ErrorResponse is the standard JSON error format
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"` // Remediation hint (suggested fix command)
}

// NewError creates a new error response
func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// NewErrorWithCode creates a new error response with a code
func NewErrorWithCode(code, msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Code: code}
}

// SuccessResponse is a simple success indicator
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// NewSuccess creates a success response
func NewSuccess(msg string) SuccessResponse {
	return SuccessResponse{Success: true, Message: msg}
}

// TimestampedResponse adds a timestamp to any response
type TimestampedResponse struct {
	GeneratedAt time.Time `json:"generated_at"`
}

// NewTimestamped creates a timestamped response base
func NewTimestamped() TimestampedResponse {
	return TimestampedResponse{GeneratedAt: Timestamp()}
}

// TabResponse describes one tracked window
type TabResponse struct {
	Index  int    `json:"index"`
	Window int64  `json:"window"`
	Title  string `json:"title,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// SessionResponse is the output format for session state
type SessionResponse struct {
	TimestampedResponse
	Exists      bool          `json:"exists"`
	Status      string        `json:"status,omitempty"` // e.g. "[2/3]"
	ActiveIndex int           `json:"active_index"`
	Total       int           `json:"total"`
	Tabs        []TabResponse `json:"tabs,omitempty"`
}

// DependencyResponse describes one external tool check
type DependencyResponse struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
	Required  bool   `json:"required"`
	Hint      string `json:"hint,omitempty"`
}

// DepsResponse is the output format for the deps command
type DepsResponse struct {
	TimestampedResponse
	Dependencies []DependencyResponse `json:"dependencies"`
	Satisfied    bool                 `json:"satisfied"`
}

// VersionResponse is the output format for the version command
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	BuiltBy string `json:"built_by,omitempty"`
}
