package remote

// Document shapes for the remote store. All timestamps travel as RFC 3339
// strings; the store itself is schemaless JSON.

// ComputerDoc is the per-computer presence document.
type ComputerDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IPAddress    string `json:"ipAddress,omitempty"`
	Status       string `json:"status"`
	LastSeen     string `json:"lastSeen"`
	RegisteredAt string `json:"registeredAt,omitempty"`
}

// ActiveSessionDoc mirrors a session that is still running.
type ActiveSessionDoc struct {
	ComputerID      string `json:"computerId"`
	ComputerName    string `json:"computerName"`
	UserID          string `json:"userId"`
	UserName        string `json:"userName"`
	StartTime       string `json:"startTime"`
	CurrentActivity string `json:"currentActivity"`
	Status          string `json:"status"`
}

// HistorySessionDoc is the archived form of a completed session.
type HistorySessionDoc struct {
	ComputerID    string `json:"computerId"`
	ComputerName  string `json:"computerName"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	TotalDuration int64  `json:"totalDuration"`
	Date          string `json:"date"`
	Status        string `json:"status"`
}

// ActivityDoc is an archived foreground-application interval.
type ActivityDoc struct {
	ComputerID      string `json:"computerId"`
	UserName        string `json:"userName"`
	ApplicationName string `json:"applicationName"`
	WindowTitle     string `json:"windowTitle"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationSeconds int64  `json:"durationSeconds"`
}

// FileEditDoc is an archived file-edit observation.
type FileEditDoc struct {
	ComputerID  string `json:"computerId"`
	UserName    string `json:"userName"`
	FileName    string `json:"fileName"`
	FilePath    string `json:"filePath,omitempty"`
	Application string `json:"application"`
	EditTime    string `json:"editTime"`
}

// CommandDoc is a pending remote command addressed to a computer.
type CommandDoc struct {
	Type       string `json:"type"`
	ComputerID string `json:"computerId"`
	CreatedAt  string `json:"createdAt"`
}

// AgentCodeDoc maps a linking code to an account.
type AgentCodeDoc struct {
	Active bool   `json:"active"`
	UserID string `json:"userId"`
}
