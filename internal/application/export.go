package app

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"mcq-grader/internal/domain/entity"
)

var csvHeader = []string{"Student", "Score", "Out of", "Percentage"}

// WriteResultsCSV пишет ведомость в CSV: заголовок и строка на каждый лист.
// Для нечитаемого листа балл и максимум пустые, а в колонке процента текст ошибки.
func WriteResultsCSV(w io.Writer, results []entity.GradingResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		var row []string
		if r.Failed() {
			row = []string{r.Filename, "", "", r.Error}
		} else {
			row = []string{r.Filename, intCell(r.Score), intCell(r.Total), percentCell(r.Percentage)}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResultsCSV возвращает ведомость в виде CSV-строки
func ResultsCSV(results []entity.GradingResult) (string, error) {
	var sb strings.Builder
	if err := WriteResultsCSV(&sb, results); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// percentCell печатает целые проценты с одним знаком: 100.0, 50.0, 66.67.
func percentCell(v *float64) string {
	if v == nil {
		return ""
	}
	if *v == math.Trunc(*v) {
		return strconv.FormatFloat(*v, 'f', 1, 64)
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
