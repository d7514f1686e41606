package curve

import (
	"path/filepath"
	"sort"
	"strings"

	"curveeditor.dev/core/internal/fsutil"
)

// supportedImageExtensions lists the background-plate formats the editor
// will display; anything else in the directory is ignored.
var supportedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
	".exr":  true,
}

// ScanImageSequence lists the image files directly inside dir, filtered to
// supportedImageExtensions and sorted by name, and wraps them as an
// ImageSequence. Subdirectories are not recursed into.
func ScanImageSequence(fs fsutil.FileSystem, dir string) (ImageSequence, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return ImageSequence{}, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if supportedImageExtensions[ext] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	return ImageSequence{
		Directory: dir,
		Files:     files,
		Total:     len(files),
	}, nil
}
