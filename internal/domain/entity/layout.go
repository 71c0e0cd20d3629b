package entity

import "fmt"

// QuestionLayout варианты ответа одного вопроса в порядке следования
type QuestionLayout struct {
	Options []Rect `yaml:"options" json:"options"`
}

// SheetLayout шаблон листа: вопросы в порядке следования
type SheetLayout struct {
	Name      string           `yaml:"name" json:"name,omitempty"`
	Questions []QuestionLayout `yaml:"questions" json:"questions"`
}

// DefaultLayout возвращает разметку стандартного листа: 4 вопроса по 3 варианта
func DefaultLayout() SheetLayout {
	return SheetLayout{
		Name: "default",
		Questions: []QuestionLayout{
			{Options: []Rect{NewRect(209, 720, 63, 45), NewRect(550, 719, 63, 45), NewRect(929, 718, 62, 44)}},
			{Options: []Rect{NewRect(209, 1235, 63, 44), NewRect(548, 1237, 64, 44), NewRect(929, 1235, 62, 45)}},
			{Options: []Rect{NewRect(209, 1490, 63, 44), NewRect(550, 1490, 63, 45), NewRect(929, 1490, 63, 45)}},
			{Options: []Rect{NewRect(209, 1870, 63, 44), NewRect(548, 1869, 63, 45), NewRect(929, 1870, 63, 45)}},
		},
	}
}

// Validate проверяет, что у каждого вопроса есть варианты ненулевого размера
func (l SheetLayout) Validate() error {
	for qi, q := range l.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d has no options", qi+1)
		}
		for oi, o := range q.Options {
			if o.Width <= 0 || o.Height <= 0 {
				return fmt.Errorf("question %d option %d has non-positive size %s", qi+1, oi+1, o)
			}
		}
	}
	return nil
}
