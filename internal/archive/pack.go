package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SkipFunc reports whether a path found while packing should be left out.
// Returning true for a directory skips the whole subtree.
type SkipFunc func(path string, info os.FileInfo) bool

// Pack writes a zip at zipPath holding the files of each dir, stored relative
// to that dir. When two dirs contain the same relative path the first one
// wins. It returns the number of files written.
func Pack(fsys afero.Fs, zipPath string, dirs []string, skip SkipFunc) (int, error) {
	if err := fsys.MkdirAll(filepath.Dir(zipPath), 0755); err != nil {
		return 0, fmt.Errorf("creating directory for %s: %w", zipPath, err)
	}

	out, err := fsys.Create(zipPath)
	if err != nil {
		return 0, fmt.Errorf("creating archive %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	seen := make(map[string]bool)
	count := 0

	absZip, _ := filepath.Abs(zipPath)

	for _, dir := range dirs {
		err := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if abs, _ := filepath.Abs(path); abs == absZip {
				return nil
			}
			if path != dir && skip != nil && skip(path, info) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			name := filepath.ToSlash(rel)
			if seen[name] {
				return nil
			}
			seen[name] = true

			if err := addFile(fsys, zw, path, name, info); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			zw.Close()
			return count, fmt.Errorf("packing %s: %w", dir, err)
		}
	}

	if err := zw.Close(); err != nil {
		return count, fmt.Errorf("finalizing archive %s: %w", zipPath, err)
	}
	if err := out.Close(); err != nil {
		return count, fmt.Errorf("closing archive %s: %w", zipPath, err)
	}
	return count, nil
}

func addFile(fsys afero.Fs, zw *zip.Writer, path, name string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building zip header for %s: %w", path, err)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}

	in, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
