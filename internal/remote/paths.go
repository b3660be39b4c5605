package remote

import "fmt"

// Path helpers for the per-user document tree. Everything the agent writes
// lives under users/{userId}/ except the public linking codes.

func ComputerPath(userID, computerID string) string {
	return fmt.Sprintf("users/%s/computers/%s", userID, computerID)
}

func ActiveSessionPath(userID, computerID string, sessionID int64) string {
	return fmt.Sprintf("users/%s/sessions/active/%s_%d", userID, computerID, sessionID)
}

func ActiveSessionsPath(userID string) string {
	return fmt.Sprintf("users/%s/sessions/active", userID)
}

func HistorySessionPath(userID, computerID string, sessionID int64) string {
	return fmt.Sprintf("users/%s/sessions/history/%s_%d", userID, computerID, sessionID)
}

func ActivityPath(userID, computerID string, logID int64) string {
	return fmt.Sprintf("users/%s/activities/%s_%d", userID, computerID, logID)
}

func FileEditPath(userID, computerID string, editID int64) string {
	return fmt.Sprintf("users/%s/fileEdits/%s_%d", userID, computerID, editID)
}

func CommandsPath(userID string) string {
	return fmt.Sprintf("users/%s/commands", userID)
}

func CommandPath(userID, commandID string) string {
	return fmt.Sprintf("users/%s/commands/%s", userID, commandID)
}

func AgentCodePath(code string) string {
	return fmt.Sprintf("agentCodes/%s", code)
}
