// Package staging manages per-job workspaces under the configured staging
// directory. Each job gets its own directory holding the extracted audio and
// the assembled dub track until muxing completes.
package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dubber/internal/logging"
)

// JobDirName returns the directory name used for a job workspace.
func JobDirName(jobID int64) string {
	return fmt.Sprintf("job-%06d", jobID)
}

// JobDir returns the workspace path for a job without creating it.
func JobDir(stagingDir string, jobID int64) string {
	return filepath.Join(stagingDir, JobDirName(jobID))
}

// EnsureJobDir creates the workspace for a job and returns its path.
func EnsureJobDir(stagingDir string, jobID int64) (string, error) {
	dir := JobDir(stagingDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create job workspace: %w", err)
	}
	return dir, nil
}

// RemoveJobDir deletes a job workspace. Missing directories are not an error.
func RemoveJobDir(stagingDir string, jobID int64) error {
	dir := JobDir(stagingDir, jobID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove job workspace: %w", err)
	}
	return nil
}

// CleanStaleResult contains the outcome of a stale workspace cleanup pass.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes job workspaces older than maxAge. Jobs that finished or
// failed long ago leave directories behind when the daemon was stopped before
// cleanup ran.
func CleanStale(stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return result
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "job-") {
			continue
		}

		dirPath := filepath.Join(stagingDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale job workspace",
					logging.String("path", dirPath),
					logging.Error(err))
			}
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		if logger != nil {
			logger.Info("removed stale job workspace",
				logging.String("path", dirPath),
				logging.Duration("age", time.Since(info.ModTime())))
		}
	}

	return result
}
