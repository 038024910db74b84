package source

import (
	"context"
	"fmt"
	"os"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// FileSource reads a local file.
type FileSource struct {
	Path    string
	Decoder Decoder
}

// Fetch opens and decodes the file.
func (s *FileSource) Fetch(ctx context.Context) (*types.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	ds, err := s.Decoder.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Path, err)
	}
	ds.Origin = s.Path
	return ds, nil
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return "file:" + s.Path
}
