package vision

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mcq-grader/internal/domain/entity"
)

// IsImageName сообщает, похоже ли имя файла на изображение листа, которое умеет декодировать loader.go
func IsImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// SheetSources возвращает листы из файла или из папки (по алфавиту)
func SheetSources(path string) ([]entity.SheetSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		return []entity.SheetSource{{Name: filepath.Base(path), Path: path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && IsImageName(entry.Name()) {
			paths = append(paths, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(paths)

	sheets := make([]entity.SheetSource, 0, len(paths))
	for _, p := range paths {
		sheets = append(sheets, entity.SheetSource{Name: filepath.Base(p), Path: p})
	}
	return sheets, nil
}
