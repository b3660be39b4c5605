package sync

// Result summarizes what one tick accomplished.
type Result struct {
	Sessions       int
	ActiveSessions int
	Applications   int
	FileEdits      int
	Offline        bool
}

// Total returns the number of records pushed or archived.
func (r Result) Total() int {
	return r.Sessions + r.ActiveSessions + r.Applications + r.FileEdits
}
