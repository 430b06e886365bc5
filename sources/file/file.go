package file

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/sources/base"
)

// FileSource reads listings from the local filesystem. The file is re-read
// on every fetch so edits show up on the next page load.
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

// CanFetch accepts plain paths and file:// URIs
func (s *FileSource) CanFetch(uri string) bool {
	if strings.HasPrefix(uri, "file://") {
		return true
	}
	return uri != "" && !strings.Contains(uri, "://")
}

func (s *FileSource) FetchRows(ctx context.Context, uri string) ([]models.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(uri, "file://")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listings file: %w", err)
	}
	defer f.Close()

	return base.DecodeRows(f, base.FormatFor(path, ""))
}
