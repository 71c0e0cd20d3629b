package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mcq-grader/internal/domain/entity"
)

// WriteLayout сохраняет шаблон листа в YAML-файл
func WriteLayout(layout entity.SheetLayout, path string) error {
	data, err := yaml.Marshal(layout)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadLayout читает шаблон листа из YAML-файла и проверяет его
func ReadLayout(path string) (entity.SheetLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.SheetLayout{}, err
	}

	var layout entity.SheetLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return entity.SheetLayout{}, fmt.Errorf("parse layout %s: %w", path, err)
	}
	if err := layout.Validate(); err != nil {
		return entity.SheetLayout{}, fmt.Errorf("layout %s: %w", path, err)
	}

	return layout, nil
}
