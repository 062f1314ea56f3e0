package fetch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
)

// DecompressFile decodes the brotli file at src into dst and returns the
// decompressed size. dst is not left behind when decoding fails.
func DecompressFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, brotli.NewReader(in))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("decompress %s: %w", src, err)
	}
	return n, nil
}

type Decompressed struct {
	Src   string
	Dst   string
	Bytes int64
}

// DecompressDir decodes every *.br file under dir next to itself, without
// the extension: build.wasm.br -> build.wasm. Files that fail are reported
// together after the walk.
func DecompressDir(dir string) ([]Decompressed, error) {
	var out []Decompressed
	var errs []error
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".br") {
			return nil
		}
		dst := strings.TrimSuffix(path, ".br")
		n, err := DecompressFile(path, dst)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		slog.Debug("decompressed", "src", path, "dst", dst, "bytes", n)
		out = append(out, Decompressed{Src: path, Dst: dst, Bytes: n})
		return nil
	})
	if err != nil {
		return out, err
	}
	return out, errors.Join(errs...)
}
