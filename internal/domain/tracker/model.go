package tracker

import "time"

// ApplicationLog is one contiguous foreground-application interval. End is
// nil while the application still holds the foreground.
type ApplicationLog struct {
	ID              int64      `json:"id"`
	ComputerID      string     `json:"computer_id"`
	Username        string     `json:"username"`
	ApplicationName string     `json:"application_name"`
	WindowTitle     string     `json:"window_title"`
	Start           time.Time  `json:"start_time"`
	End             *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Synced          bool       `json:"synced"`
}

// FileEdit records a file observed open for editing, at most once per
// (file, path, application) tuple per process lifetime.
type FileEdit struct {
	ID          int64     `json:"id"`
	ComputerID  string    `json:"computer_id"`
	Username    string    `json:"username"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	Application string    `json:"application"`
	EditTime    time.Time `json:"edit_time"`
	Synced      bool      `json:"synced"`
}
