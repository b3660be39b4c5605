package tracker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Describe formats a foreground window as a short human-readable activity
// line for the remote dashboard.
func Describe(process, title string) string {
	if process == "" {
		return ""
	}
	if title == "" {
		return fmt.Sprintf("Using %s", process)
	}

	switch strings.ToLower(process) {
	case "chrome.exe", "msedge.exe":
		return fmt.Sprintf("Browsing: %s", title)
	case "excel.exe":
		return fmt.Sprintf("Excel: %s", title)
	case "winword.exe":
		return fmt.Sprintf("Word: %s", title)
	case "powerpnt.exe":
		return fmt.Sprintf("PowerPoint: %s", title)
	case "code.exe":
		return fmt.Sprintf("Coding: %s", title)
	case "explorer.exe":
		return fmt.Sprintf("File Explorer: %s", title)
	default:
		return fmt.Sprintf("%s: %s", process, title)
	}
}

// Editor processes whose window titles lead with the open file name.
var editorProcesses = map[string]struct{}{
	"winword.exe":   {},
	"excel.exe":     {},
	"powerpnt.exe":  {},
	"code.exe":      {},
	"notepad.exe":   {},
	"notepad++.exe": {},
}

// ExtractFileEdit pulls a file name out of an editor window title, for
// titles shaped like "report.docx - Word" or "main.go - proj - Visual
// Studio Code". The name must carry an extension; bare document titles are
// ignored.
func ExtractFileEdit(process, title string) (string, bool) {
	if _, ok := editorProcesses[strings.ToLower(process)]; !ok {
		return "", false
	}

	name, _, found := strings.Cut(title, " - ")
	if !found {
		name = title
	}
	name = strings.TrimSpace(strings.TrimPrefix(name, "*"))
	if name == "" {
		return "", false
	}

	ext := filepath.Ext(name)
	if len(ext) < 2 || strings.ContainsAny(ext, " ") {
		return "", false
	}
	return name, true
}
