// Package favexport implements the favourites export/import zip format: a
// zip archive with a root file literally named "favourites"
// (newline-separated absolute paths, UTF-8) plus any thumbnail files
// referenced by those paths.
package favexport

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// manifestName is the archive's root favourites-list entry name.
const manifestName = "favourites"

// ThumbnailLookup resolves a favourited path to its on-disk thumbnail file,
// if one exists, so Export can bundle it alongside the manifest.
type ThumbnailLookup func(path string) (diskPath string, ok bool)

// Export writes a favourites archive to w: the manifest listing paths,
// newline-separated, plus every thumbnail thumbnails resolves for them,
// stored under their own base name, as in the thumbnail directory.
func Export(w io.Writer, paths []string, thumbnails ThumbnailLookup) error {
	zw := zip.NewWriter(w)

	manifest, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("favexport: creating manifest entry: %w", err)
	}
	if _, err := io.WriteString(manifest, strings.Join(paths, "\n")+"\n"); err != nil {
		return fmt.Errorf("favexport: writing manifest: %w", err)
	}

	if thumbnails != nil {
		for _, p := range paths {
			disk, ok := thumbnails(p)
			if !ok {
				continue
			}
			if err := addFile(zw, filepath.Base(disk), disk); err != nil {
				return err
			}
		}
	}

	return zw.Close()
}

func addFile(zw *zip.Writer, name, diskPath string) error {
	src, err := os.Open(diskPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("favexport: opening thumbnail %s: %w", diskPath, err)
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("favexport: creating archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("favexport: copying thumbnail %s: %w", name, err)
	}
	return nil
}

// Result is what Import recovered from an archive: the favourited paths to
// append to the current set, plus the thumbnail files it extracted.
type Result struct {
	Paths          []string
	ExtractedFiles []string
}

// Import reads a favourites archive, extracting any non-manifest entries
// (thumbnails) into destThumbDir and returning the manifest's paths for the
// caller to append to the current favourites set.
func Import(r *zip.Reader, destThumbDir string) (Result, error) {
	var res Result
	var manifestFile *zip.File
	for _, f := range r.File {
		if f.Name == manifestName {
			manifestFile = f
			break
		}
	}
	if manifestFile == nil {
		return res, fmt.Errorf("favexport: archive has no %q manifest entry", manifestName)
	}

	rc, err := manifestFile.Open()
	if err != nil {
		return res, fmt.Errorf("favexport: opening manifest: %w", err)
	}
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			res.Paths = append(res.Paths, line)
		}
	}
	rc.Close()
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("favexport: reading manifest: %w", err)
	}

	if err := os.MkdirAll(destThumbDir, 0o755); err != nil {
		return res, fmt.Errorf("favexport: creating thumbnail directory: %w", err)
	}

	for _, f := range r.File {
		if f.Name == manifestName || f.FileInfo().IsDir() {
			continue
		}
		dest := filepath.Join(destThumbDir, filepath.Base(f.Name))
		if err := extractFile(f, dest); err != nil {
			return res, err
		}
		res.ExtractedFiles = append(res.ExtractedFiles, dest)
	}

	return res, nil
}

func extractFile(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("favexport: opening archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("favexport: creating %s: %w", dest, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("favexport: extracting %s: %w", dest, err)
	}
	return nil
}
