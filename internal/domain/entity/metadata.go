package entity

// QuestionKey варианты вопроса и правильный вариант из эталона
type QuestionKey struct {
	Options   []Rect `json:"options"`
	Confirmed *Rect  `json:"confirmed"`
}

// Metadata ключ ответов, полученный из эталонного листа.
// После создания не изменяется.
type Metadata struct {
	Questions []QuestionKey `json:"questions"`
}

// Layout восстанавливает разметку листа из метаданных
func (m *Metadata) Layout() SheetLayout {
	layout := SheetLayout{Questions: make([]QuestionLayout, 0, len(m.Questions))}
	for _, q := range m.Questions {
		layout.Questions = append(layout.Questions, QuestionLayout{Options: q.Options})
	}
	return layout
}

// ConfirmedIndex возвращает позицию правильного варианта или -1
func (q QuestionKey) ConfirmedIndex() int {
	if q.Confirmed == nil {
		return -1
	}
	for i, o := range q.Options {
		if o == *q.Confirmed {
			return i
		}
	}
	return -1
}

// Validate проверяет метаданные, пришедшие извне (JSON)
func (m *Metadata) Validate() error {
	if m == nil {
		return NewInvalidMetadataError("metadata is missing")
	}
	for i, q := range m.Questions {
		if len(q.Options) == 0 {
			return NewInvalidMetadataError("question %d has no options", i+1)
		}
		if q.Confirmed != nil && q.ConfirmedIndex() < 0 {
			return NewInvalidMetadataError("question %d confirmed %s is not one of its options", i+1, *q.Confirmed)
		}
	}
	return nil
}
