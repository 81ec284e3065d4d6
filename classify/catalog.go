package classify

import (
	"fmt"
	"os"
	"strings"
)

// Catalog is the ordered class-index to label mapping, loaded once at
// startup and immutable for the pipeline's lifetime.
type Catalog struct {
	labels []string
}

// LoadCatalog reads a class-label file with one label per line. Blank lines
// are skipped; order determines class index.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read class names: %w", err)
	}

	var labels []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no class labels found in %s", path)
	}

	return &Catalog{labels: labels}, nil
}

// Len returns the number of known classes.
func (c *Catalog) Len() int {
	return len(c.labels)
}

// Label returns the label for a class index, or a placeholder for indices
// outside the catalog.
func (c *Catalog) Label(i int) string {
	if i < 0 || i >= len(c.labels) {
		return fmt.Sprintf("class_%d", i)
	}
	return c.labels[i]
}

// Labels returns a copy of the ordered label list.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}
