package s0_data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// FileSource loads an export file from disk
type FileSource struct {
	path   string
	format string
	logger *logger.Logger
}

// NewFileSource creates a file source. An empty format is inferred from the extension.
func NewFileSource(path, format string, log *logger.Logger) *FileSource {
	if format == "" {
		format = formatFromPath(path)
	}
	return &FileSource{
		path:   path,
		format: format,
		logger: log,
	}
}

// Name returns the source name
func (s *FileSource) Name() string {
	return "file:" + filepath.Base(s.path)
}

// Load reads every row of the file
func (s *FileSource) Load(ctx context.Context) ([]contracts.StockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	header, rows, err := readTable(f, s.format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return recordsFromTable(s.Name(), header, rows, s.logger)
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatCSV
	}
}
