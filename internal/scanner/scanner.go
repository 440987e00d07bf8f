// Package scanner expands the statement arguments of a command into the list
// of files to read.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/session-payments/internal/logging"
)

// StatementExtensions are the file extensions picked up inside directories.
var StatementExtensions = []string{".csv", ".xml", ".camt", ".053"}

// StatementScanner finds statement exports among files and directories.
type StatementScanner struct {
	logger logging.Logger
}

// NewStatementScanner creates a new instance of StatementScanner.
func NewStatementScanner(logger logging.Logger) *StatementScanner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StatementScanner{
		logger: logger.WithField("component", "StatementScanner"),
	}
}

// ScanPaths returns the statement files named by paths. A file is returned
// as given whatever its extension; a directory is walked recursively for
// files with a statement extension, in lexical order and skipping hidden
// entries. It returns an error if any path is missing or unreadable.
func (s *StatementScanner) ScanPaths(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			s.logger.WithError(err).WithField("path", p).Error("Failed to stat path")
			return nil, fmt.Errorf("failed to stat path %s: %w", p, err)
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		found, err := s.scanDirectory(p)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			s.logger.WithField("path", p).Warn("No statement files in directory")
		}
		files = append(files, found...)
	}

	return files, nil
}

func (s *StatementScanner) scanDirectory(dirPath string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dirPath && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isStatement(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	s.logger.Debug("Scanned statement directory",
		logging.F("path", dirPath),
		logging.F(logging.FieldCount, len(files)))
	return files, nil
}

func isStatement(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range StatementExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
