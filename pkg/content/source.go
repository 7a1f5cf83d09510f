package content

import (
	"context"
	"fmt"
)

// Source fetches the visualization datasets.
type Source interface {
	Name() string
	Datasets(ctx context.Context) (*Datasets, error)
}

type embeddedSource struct{}

// Embedded serves the datasets compiled into the binary.
func Embedded() Source { return embeddedSource{} }

func (embeddedSource) Name() string { return "embedded" }

func (embeddedSource) Datasets(ctx context.Context) (*Datasets, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return &c.Datasets, nil
}

type fileSource struct {
	path string
}

// FileSource reads the datasets from a YAML content file on every fetch,
// so a file that is fixed while the loader retries is picked up.
func FileSource(path string) Source { return &fileSource{path: path} }

func (s *fileSource) Name() string { return "file" }

func (s *fileSource) Datasets(ctx context.Context) (*Datasets, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := LoadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return &c.Datasets, nil
}
