package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lamlight-dev/lamlight/internal/platform"
	"github.com/spf13/afero"
)

// Extract unpacks every entry of the zip at zipPath into destDir, replacing
// files that already exist. An empty destDir means the current working
// directory. It returns the extracted file paths.
func Extract(fsys afero.Fs, zipPath, destDir string) ([]string, error) {
	if destDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		destDir = wd
	}

	f, err := fsys.Open(zipPath)
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat zip archive: %w", err)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading zip archive %s: %w", zipPath, err)
	}

	var extracted []string
	for _, zf := range r.File {
		target, err := entryPath(destDir, zf.Name)
		if err != nil {
			return extracted, err
		}

		if zf.FileInfo().IsDir() {
			if err := fsys.MkdirAll(target, 0755); err != nil {
				return extracted, fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(fsys, zf, target); err != nil {
			return extracted, err
		}
		extracted = append(extracted, target)
	}

	return extracted, nil
}

func extractFile(fsys afero.Fs, zf *zip.File, target string) error {
	if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}

	mode := zf.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}

	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("opening zip entry %s: %w", zf.Name, err)
	}
	defer rc.Close()

	out, err := fsys.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", zf.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", target, err)
	}

	// An existing file keeps its old mode through O_TRUNC.
	return platform.Chmod(fsys, target, mode)
}

// entryPath resolves an archive entry name under destDir and rejects names
// that would land outside it.
func entryPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("zip entry %q escapes destination %s", name, destDir)
	}
	return target, nil
}
