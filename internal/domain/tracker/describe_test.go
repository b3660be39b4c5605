package tracker_test

import (
	"testing"

	"github.com/deskwatch/agent/internal/domain/tracker"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		process string
		title   string
		want    string
	}{
		{"chrome", "chrome.exe", "News - Example", "Browsing: News - Example"},
		{"edge", "msedge.exe", "Docs", "Browsing: Docs"},
		{"word", "winword.exe", "report.docx - Word", "Word: report.docx - Word"},
		{"excel", "excel.exe", "Q3.xlsx", "Excel: Q3.xlsx"},
		{"powerpoint", "powerpnt.exe", "deck.pptx", "PowerPoint: deck.pptx"},
		{"vscode", "code.exe", "main.go - agent", "Coding: main.go - agent"},
		{"explorer", "explorer.exe", "Downloads", "File Explorer: Downloads"},
		{"other app", "slack.exe", "general", "slack.exe: general"},
		{"no title", "slack.exe", "", "Using slack.exe"},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tracker.Describe(tt.process, tt.title))
		})
	}
}

func TestExtractFileEdit(t *testing.T) {
	tests := []struct {
		name    string
		process string
		title   string
		want    string
		ok      bool
	}{
		{"word doc", "winword.exe", "report.docx - Word", "report.docx", true},
		{"unsaved marker", "notepad.exe", "*notes.txt - Notepad", "notes.txt", true},
		{"vscode nested title", "code.exe", "main.go - agent - Visual Studio Code", "main.go", true},
		{"excel bare name", "excel.exe", "Q3.xlsx", "Q3.xlsx", true},
		{"no extension", "winword.exe", "Document1 - Word", "", false},
		{"not an editor", "chrome.exe", "report.docx - Google Drive", "", false},
		{"empty title", "winword.exe", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := tracker.ExtractFileEdit(tt.process, tt.title)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, name)
		})
	}
}
