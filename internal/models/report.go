package models

// ExtractAction describes what Extract did with a script file.
type ExtractAction string

const (
	ExtractCreated   ExtractAction = "created"
	ExtractUpdated   ExtractAction = "updated"
	ExtractMoved     ExtractAction = "moved"
	ExtractUnchanged ExtractAction = "unchanged"
)

// ExtractResult is the outcome of extracting one node.
type ExtractResult struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	FromPath string        `json:"from_path,omitempty"`
	Action   ExtractAction `json:"action"`
}

// SyncReport counts the outcomes of one sync pass.
type SyncReport struct {
	Files     int      `json:"files"`
	Updated   []string `json:"updated"`
	Missing   []string `json:"missing"`
	Unchanged int      `json:"unchanged"`
	Warnings  int      `json:"warnings"`
	Written   bool     `json:"written"`
}

// MigrateReport counts the outcomes of one migrate pass.
type MigrateReport struct {
	Files     int `json:"files"`
	Converted int `json:"converted"`
	Moved     int `json:"moved"`
	Skipped   int `json:"skipped"`
	Warnings  int `json:"warnings"`
}

// ScanEntry is one ranked row of a scan report.
type ScanEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Container  string `json:"container"`
	LOC        int    `json:"loc"`
	Complexity int    `json:"complexity"`
	Extracted  bool   `json:"extracted"`
	Path       string `json:"path,omitempty"`
}
