package dashboard

import (
	"context"
	"fmt"

	"github.com/newspulse/newspulse/pkg/domain"
	"github.com/newspulse/newspulse/pkg/table"
)

//go:generate moq -out mocks/loader.go -pkg mocks -skip-ensure -fmt goimports . Loader

// Loader provides the classified articles table
type Loader interface {
	Load(ctx context.Context) ([]domain.ClassifiedArticle, error)
}

// FileLoader reads the classified table from a flat file
type FileLoader struct {
	Path string
}

// Load reads and decodes the file on every call
func (f FileLoader) Load(_ context.Context) ([]domain.ClassifiedArticle, error) {
	tbl, err := table.Read(f.Path)
	if err != nil {
		return nil, err
	}
	rows, err := tbl.Classified()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.Path, err)
	}
	return rows, nil
}
