package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileLoader reads pages from a local directory.
type fileLoader struct {
	dir    string
	logger zerolog.Logger
}

// NewFileLoader creates a loader that reads <dir>/<name>.md.
func NewFileLoader(dir string, logger zerolog.Logger) Loader {
	return &fileLoader{
		dir:    dir,
		logger: logger.With().Str("component", "page-loader").Logger(),
	}
}

// Load reads and parses a page file.
func (l *fileLoader) Load(ctx context.Context, name string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.dir, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read page file")
		return nil, fmt.Errorf("failed to read page file %s: %w", path, err)
	}

	page, err := Parse(name, data)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().Str("file", path).Str("title", page.Title).Msg("page loaded")
	return page, nil
}
