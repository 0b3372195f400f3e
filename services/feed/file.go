package feed

import (
	"context"
	"fmt"
	"os"

	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
)

type FileSource struct {
	path   string
	logger logger.Logger
}

func NewFileSource(path string, logger logger.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

func (s *FileSource) Fetch(ctx context.Context) ([]directory.Doctor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open doctor feed file: %w", err)
	}
	defer file.Close()

	return decode(file, s.logger)
}

func (s *FileSource) Close() error {
	return nil
}
