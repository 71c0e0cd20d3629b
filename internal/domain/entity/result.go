package entity

import "strconv"

// Score итог проверки одного листа
type Score struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NewScore считает процент с округлением до сотых; при total == 0 процент равен 0.
// Точная половина округляется к чётному: 1 из 32 даёт 3.12.
func NewScore(score, total int) Score {
	pct := 0.0
	if total > 0 {
		p := float64(score) / float64(total) * 100
		pct, _ = strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	}
	return Score{Score: score, Total: total, Percentage: pct}
}

// AnswerCheck результат по одному вопросу
type AnswerCheck struct {
	Question int  `json:"question"` // номер вопроса с 1
	Student  int  `json:"student"`  // индекс отмеченного варианта или -1
	Expected int  `json:"expected"` // индекс правильного варианта или -1
	Correct  bool `json:"correct"`
}

// SheetReport подробный результат проверки листа
type SheetReport struct {
	Score
	Answers []AnswerCheck `json:"answers"`
}

// SheetSource лист студента: путь к файлу или содержимое в памяти
type SheetSource struct {
	Name string // имя для отчёта
	Path string // путь к файлу, если Data пусто
	Data []byte // содержимое файла
}

// GradingResult строка итоговой ведомости.
// Для нечитаемого листа заполнено Error, а числовые поля равны nil.
type GradingResult struct {
	Filename   string    `json:"filename"`
	Score      *int      `json:"score"`
	Total      *int      `json:"total"`
	Percentage *float64  `json:"percentage"`
	Error      string    `json:"error,omitempty"`
	ErrorCode  ErrorCode `json:"error_code,omitempty"`
}

// NewGradingResult создаёт успешную строку ведомости
func NewGradingResult(filename string, s Score) GradingResult {
	score, total, pct := s.Score, s.Total, s.Percentage
	return GradingResult{
		Filename:   filename,
		Score:      &score,
		Total:      &total,
		Percentage: &pct,
	}
}

// NewFailedResult создаёт строку ведомости для листа, который не удалось обработать.
// Пустой текст ошибки заменяется её кодом.
func NewFailedResult(filename string, err error) GradingResult {
	code := CodeOf(err)
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = string(code)
	}
	if msg == "" {
		msg = "unknown error"
	}
	return GradingResult{
		Filename:  filename,
		Error:     msg,
		ErrorCode: code,
	}
}

// Failed сообщает, что лист не удалось обработать
func (r GradingResult) Failed() bool {
	return r.Score == nil
}
