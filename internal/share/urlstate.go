// Пакет share реализует перенос состояния между установками сервиса:
// компактный URL-параметр и выгрузка в GitHub Gist
package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"ProductMarksService/internal/model"
)

// Codec — реализация кодека состояния для HTTP-слоя поверх EncodeState/DecodeState
type Codec struct{}

func (Codec) Encode(marks []model.ProductMark) (string, error) { return EncodeState(marks) }

func (Codec) Decode(param string) ([]model.ProductMark, error) { return DecodeState(param) }

// EncodeState сериализует массив марок в компактную URL-безопасную строку:
// JSON → base64 без выравнивания, алфавит URL-safe
func EncodeState(marks []model.ProductMark) (string, error) {
	data, err := json.Marshal(marks)
	if err != nil {
		return "", fmt.Errorf("failed to marshal marks: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeState восстанавливает массив марок из URL-параметра.
// Принимает строки как с выравниванием '=', так и без него
func DecodeState(param string) ([]model.ProductMark, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(param, "="))
	if err != nil {
		return nil, fmt.Errorf("failed to decode state param: %w", err)
	}
	var marks []model.ProductMark
	if err := json.Unmarshal(data, &marks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal marks: %w", err)
	}
	return marks, nil
}
