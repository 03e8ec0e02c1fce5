// Package storage defines the script-root file-system abstraction.
package storage

// FileInfo describes one eligible script file under the root.
type FileInfo struct {
	Path string // slash-separated, relative to the root
}

// Provider is the interface for script file operations.
// All paths are relative to the script root.
type Provider interface {
	// Root returns the absolute path of the script root.
	Root() string
	// List returns every eligible script file under dir, in lexical walk order.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Move renames oldPath to newPath, creating parent directories.
	Move(oldPath, newPath string) error
	// Prune removes dir and its ancestors while they are empty, stopping at the root.
	Prune(dir string) error
}
