package pull

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/toothbrush/md2conf/confluence"
)

// ErrNoHeader means a file doesn't start with front matter.
var ErrNoHeader = errors.New("pull: no front matter header")

// ReadHeader parses the front matter of a previously pulled file.
func ReadHeader(path string) (Header, error) {
	abs, err := homedir.Expand(path)
	if err != nil {
		return Header{}, fmt.Errorf("pull: couldn't expand %s: %w", path, err)
	}
	source, err := os.ReadFile(abs)
	if err != nil {
		return Header{}, fmt.Errorf("pull: couldn't read file %s: %w", abs, err)
	}

	content := strings.ReplaceAll(string(source), "\r\n", "\n")
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return Header{}, fmt.Errorf("%w: %s", ErrNoHeader, abs)
	}
	front, _, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return Header{}, fmt.Errorf("%w: %s", ErrNoHeader, abs)
	}

	var header Header
	if err := yaml.Unmarshal([]byte(front), &header); err != nil {
		return Header{}, fmt.Errorf("pull: couldn't parse header of file %s: %w", abs, err)
	}
	if header.ObjectID <= 0 || header.Version <= 0 {
		return Header{}, fmt.Errorf("pull: header seems broken in %s", abs)
	}
	return header, nil
}

// UpToDate reports whether path already holds the version of the page info
// describes. A missing file is not up to date; neither is a file pulled from
// another page.
func UpToDate(path string, info confluence.PageInfo) (bool, error) {
	header, err := ReadHeader(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	if header.ObjectID != info.ID {
		return false, fmt.Errorf("pull: %s holds page %d, not %d", path, header.ObjectID, info.ID)
	}
	return header.Version == info.Version, nil
}
