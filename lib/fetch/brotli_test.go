package fetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecompressDir(t *testing.T) {
	dir := t.TempDir()
	build := filepath.Join(dir, "Build")
	require.NoError(t, os.MkdirAll(build, 0755))

	files := map[string]string{
		"game.framework.js": "function unityFramework() {}",
		"game.wasm":         "\x00asm wasm bytes",
		"game.data":         "data payload",
	}
	for name, contents := range files {
		path := filepath.Join(build, name+".br")
		require.NoError(t, os.WriteFile(path, brotliBytes(t, []byte(contents)), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(build, "broken.data.br"), []byte("not brotli at all"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0644))

	decompressed, err := DecompressDir(dir)
	require.Error(t, err)
	require.Len(t, decompressed, 3)

	for name, contents := range files {
		got, err := os.ReadFile(filepath.Join(build, name))
		require.NoError(t, err)
		require.Equal(t, contents, string(got))
	}
	require.NoFileExists(t, filepath.Join(build, "broken.data"))
}
