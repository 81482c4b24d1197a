package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/pagemark/pkg/logger"
)

type DirectoryScanner struct {
	log *logger.Logger
}

func New(log *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{log: log}
}

// FindPDFs walks dir and returns every PDF path found, in walk order.
// An empty result is an error; merge callers need at least one input.
func (s *DirectoryScanner) FindPDFs(ctx context.Context, dir string) ([]string, error) {
	var pdfs []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.log.Debug("scanning directory: %s", path)
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		s.log.Debug("found PDF: %s", path)
		pdfs = append(pdfs, path)
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(pdfs) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s or its subdirectories", dir)
	}

	return pdfs, nil
}
