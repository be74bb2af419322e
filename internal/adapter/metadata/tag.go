// Package metadata reads descriptive tags from video containers.
package metadata

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// TagReader extracts titles with dhowden/tag, which understands the MP4
// atoms used by the jukebox videos as well as ID3, FLAC and Ogg tags.
type TagReader struct{}

// NewTagReader creates a metadata reader.
func NewTagReader() *TagReader {
	return &TagReader{}
}

// Title returns the trimmed title tag of the file at path.
func (r *TagReader) Title(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", fmt.Errorf("read tags of %s: %w", path, err)
	}

	return strings.TrimSpace(m.Title()), nil
}

// Verify interface implementation
var _ ports.MetadataReader = (*TagReader)(nil)
