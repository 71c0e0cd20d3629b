package entity

import "fmt"

// Label метка, которую классификатор присваивает области варианта
type Label string

const (
	LabelConfirmed  Label = "confirmed"  // вариант отмечен
	LabelCrossedOut Label = "crossedout" // отметка зачёркнута
	LabelEmpty      Label = "empty"      // вариант не отмечен
)

// ClassLabels порядок классов на выходе модели
var ClassLabels = [...]Label{LabelConfirmed, LabelCrossedOut, LabelEmpty}

// LabelFromIndex возвращает метку по индексу класса модели
func LabelFromIndex(i int) (Label, error) {
	if i < 0 || i >= len(ClassLabels) {
		return "", fmt.Errorf("class index %d out of range [0, %d)", i, len(ClassLabels))
	}
	return ClassLabels[i], nil
}

// IsConfirmed сообщает, отмечен ли вариант
func (l Label) IsConfirmed() bool {
	return l == LabelConfirmed
}
