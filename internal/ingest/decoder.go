// Пакет ingest реализует конвейер массового импорта кодов маркировки:
// декодирование строк, классификация КМДМ/КМЧЗ, дедупликация и сборка сущностей
package ingest

import (
	"encoding/base64"
	"strings"
)

// GS1Separator — управляющий символ-разделитель полей GS1 (код 29)
const GS1Separator = "\x1d"

// Литеральные текстовые представления разделителя, встречающиеся во входных
// данных: экранированная форма в обоих регистрах шестнадцатеричной цифры
const (
	escSeparatorUpper = `\u001D`
	escSeparatorLower = `\u001d`
)

// separatorNormalizer переписывает текстовые представления разделителя GS1
// (литеральные последовательности \u001D и \u001d, а также символ #)
// в настоящий управляющий символ
var separatorNormalizer = strings.NewReplacer(
	escSeparatorUpper, GS1Separator,
	escSeparatorLower, GS1Separator,
	"#", GS1Separator,
)

// NormalizeSeparators приводит текстовые представления разделителя GS1 к
// управляющему символу. Отдельно от Decode используется рендерингом кодов:
// brand мог быть отредактирован вручную после создания
func NormalizeSeparators(s string) string {
	return separatorNormalizer.Replace(s)
}

// Decode декодирует одну сырую строку ввода:
// 1. Обрезает пробельные символы по краям
// 2. При decodeBase64 пытается декодировать base64; сбой декодирования не
//    фатален — строка проходит дальше как есть (документированный контракт)
// 3. Всегда нормализует представления разделителя GS1 в управляющий символ
// Результат используется и для классификации, и как сохраняемый Datamatrix
func Decode(rawLine string, decodeBase64 bool) string {
	line := strings.TrimSpace(rawLine)
	if decodeBase64 {
		if decoded, err := base64.StdEncoding.DecodeString(line); err == nil {
			line = string(decoded)
		}
	}
	return separatorNormalizer.Replace(line)
}
