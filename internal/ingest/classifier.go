package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"ProductMarksService/internal/model"
)

// Classification — результат классификации одной декодированной строки
// Brand — канонический идентификатор для дедупликации и генерации изображения
type Classification struct {
	MarkType model.MarkType
	Brand    string
}

// gtinPattern — идентификатор применения 01 и ровно 14 цифр GTIN
var gtinPattern = regexp.MustCompile(`^01(\d{14})$`)

// Classify определяет тип марки и канонический идентификатор.
// Правила в порядке приоритета:
// 1. Строка содержит разделитель GS1 (управляющий символ или неконвертированную
//    экранированную форму), скобки или букву — и не является чисто числовой —
//    КМЧЗ, Brand равен всей строке
// 2. Строка соответствует шаблону "01 + ровно 14 цифр" — КМЧЗ, Brand равен
//    этим 14 цифрам (GTIN)
// 3. Иначе КМДМ, Brand равен всей строке
// Классификация никогда не завершается ошибкой: пустая строка — КМДМ с пустым
// Brand (конвейер отбрасывает пустые строки раньше)
func Classify(decoded string) Classification {
	if hasGS1Structure(decoded) && !isNumeric(decoded) {
		return Classification{MarkType: model.MarkTypeKMCHZ, Brand: decoded}
	}
	if m := gtinPattern.FindStringSubmatch(decoded); m != nil {
		return Classification{MarkType: model.MarkTypeKMCHZ, Brand: m[1]}
	}
	return Classification{MarkType: model.MarkTypeKMDM, Brand: decoded}
}

// hasGS1Structure сообщает, есть ли в строке признаки структуры GS1:
// разделитель (в том числе не приведённый к управляющему символу), скобки
// вокруг идентификаторов применения или буквы серийной части
func hasGS1Structure(s string) bool {
	if strings.Contains(s, GS1Separator) ||
		strings.Contains(s, escSeparatorUpper) ||
		strings.Contains(s, escSeparatorLower) ||
		strings.ContainsAny(s, "()") {
		return true
	}
	return strings.ContainsFunc(s, unicode.IsLetter)
}

// isNumeric сообщает, состоит ли непустая строка только из цифр 0-9
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
