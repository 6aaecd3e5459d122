package imagehost

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	host, err := NewLocal(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := host.Upload(context.Background(), bytes.NewReader([]byte("fake image bytes")), "Menu.PNG")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"), "got %q", url)
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestLocalUploadDistinctNames(t *testing.T) {
	host, err := NewLocal(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	a, err := host.Upload(context.Background(), bytes.NewReader([]byte("a")), "menu.jpg")
	require.NoError(t, err)
	b, err := host.Upload(context.Background(), bytes.NewReader([]byte("b")), "menu.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSafeExt(t *testing.T) {
	assert.Equal(t, ".jpg", safeExt("menu.jpg"))
	assert.Equal(t, ".webp", safeExt("menu.WEBP"))
	// Anything suspicious collapses to .jpg.
	assert.Equal(t, ".jpg", safeExt("menu.sh"))
	assert.Equal(t, ".jpg", safeExt("menu"))
}
