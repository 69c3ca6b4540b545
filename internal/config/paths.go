package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths centralizes the resolved file system layout: where the raw source
// tables live and where processed output tables are written.
type Paths struct {
	DataDir      string
	ProcessedDir string
	LogsDir      string
}

// EnsureDirectories creates the writable directories if they do not exist.
// The data directory is collaborator-owned input and is left alone.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ProcessedDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataPath returns the path of a file inside the data directory.
func (p *Paths) GetDataPath(name string) string {
	return filepath.Join(p.DataDir, name)
}

// GetProcessedPath returns the path of a file inside the processed directory.
func (p *Paths) GetProcessedPath(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
