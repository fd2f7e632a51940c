package posters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type placeholder struct {
	file     string
	fill     string
	fontSize int
	label    string
}

var placeholders = []placeholder{
	{file: "leo.svg", fill: "#1a1a2e", fontSize: 40, label: "LEO"},
	{file: "jailer.svg", fill: "#2b2d42", fontSize: 36, label: "JAILER"},
	{file: "kalki.svg", fill: "#0b3d91", fontSize: 30, label: "KALKI 2898 AD"},
}

func (p placeholder) svg() string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="600" height="900">`+
		`<rect width="100%%" height="100%%" fill="%s"/>`+
		`<text x="50%%" y="45%%" fill="#fff" font-size="%d" text-anchor="middle">%s</text></svg>`,
		p.fill, p.fontSize, p.label)
}

// EnsurePlaceholders creates dir and writes the catalog poster images that are
// missing. Existing files are left untouched. It returns the files it created.
func EnsurePlaceholders(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create posters dir: %w", err)
	}

	var created []string
	for _, p := range placeholders {
		path := filepath.Join(dir, p.file)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("stat %s: %w", path, err)
		}

		if err := os.WriteFile(path, []byte(p.svg()), 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", path, err)
		}
		created = append(created, p.file)
	}
	return created, nil
}
