package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeClassFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCatalogPreservesOrder(t *testing.T) {
	path := writeClassFile(t, "walking\nrunning\nsitting\n")

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, "walking", catalog.Label(0))
	assert.Equal(t, "running", catalog.Label(1))
	assert.Equal(t, "sitting", catalog.Label(2))
}

func TestLoadCatalogSkipsBlankLines(t *testing.T) {
	path := writeClassFile(t, "walking\n\n  \nrunning\n\n")

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"walking", "running"}, catalog.Labels())
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadCatalogEmptyFile(t *testing.T) {
	path := writeClassFile(t, "\n\n")
	_, err := LoadCatalog(path)
	assert.Error(t, err)
}

func TestLabelOutOfRangeFallsBack(t *testing.T) {
	path := writeClassFile(t, "walking\n")
	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, "class_7", catalog.Label(7))
	assert.Equal(t, "class_-1", catalog.Label(-1))
}

func TestLabelsReturnsCopy(t *testing.T) {
	path := writeClassFile(t, "walking\nrunning\n")
	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	labels := catalog.Labels()
	labels[0] = "mutated"
	assert.Equal(t, "walking", catalog.Label(0))
}
