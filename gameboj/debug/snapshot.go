package debug

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-gameboj/gameboj/video"
)

// SaveFramePNG writes img as a scaled PNG named after baseName and the
// current time into directory, or the working directory when it is empty.
// It returns the path of the written file.
func SaveFramePNG(img video.Image, baseName, directory string, scale int) (string, error) {
	timestamp := time.Now().Format("20060102_150405.000")
	return SaveFramePNGAs(img, fmt.Sprintf("%s_%s.png", baseName, timestamp), directory, scale)
}

// SaveFramePNGAs is SaveFramePNG with an explicit file name.
func SaveFramePNGAs(img video.Image, filename, directory string, scale int) (string, error) {
	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		outputDir = cwd
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("creating file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := video.WritePNG(file, img, scale); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", img.Width()*scale, img.Height()*scale))
	return filePath, nil
}
