// SPDX-License-Identifier: MPL-2.0

package assets

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ZipDir writes every file and directory under srcDir into a new ZIP archive
// at outputPath. Entry names are relative to srcDir and use forward slashes.
// It returns the number of regular files written.
func ZipDir(srcDir, outputPath string) (files int, err error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read archive source: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("archive source %s is not a directory", srcDir)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create archive directory: %w", err)
	}

	zipFile, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create ZIP file: %w", err)
	}
	// Runs last, after both closes.
	defer func() {
		if err != nil {
			_ = os.Remove(outputPath)
		}
	}()
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		if relPath == "." {
			return nil
		}
		zipPath := filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, createErr := zipWriter.Create(zipPath + "/"); createErr != nil {
				return fmt.Errorf("failed to create directory entry: %w", createErr)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}
		header, headerErr := zip.FileInfoHeader(fileInfo)
		if headerErr != nil {
			return fmt.Errorf("failed to create file header: %w", headerErr)
		}
		header.Name = zipPath
		header.Method = zip.Deflate

		writer, writerErr := zipWriter.CreateHeader(header)
		if writerErr != nil {
			return fmt.Errorf("failed to create ZIP entry: %w", writerErr)
		}
		if copyErr := copyFileTo(writer, path); copyErr != nil {
			return copyErr
		}
		files++
		return nil
	})

	if walkErr != nil {
		return 0, fmt.Errorf("failed to archive %s: %w", srcDir, walkErr)
	}

	return files, nil
}

func copyFileTo(w io.Writer, path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	return nil
}
