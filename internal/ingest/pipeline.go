package ingest

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ProductMarksService/internal/model"
)

// ErrEmptyBatch возвращается, когда после обрезки пробелов не осталось ни одной
// непустой строки. Отличается от успешного результата с нулём созданных записей
// (случай, когда все строки оказались дубликатами)
var ErrEmptyBatch = errors.New("no non-empty lines supplied")

// Options — параметры разбора партии
type Options struct {
	// DecodeBase64 включает попытку base64-декодирования каждой строки
	DecodeBase64 bool
}

// Result — итог обработки партии
// Created содержит новые записи в порядке следования строк во вводе,
// Skipped — количество строк, отброшенных как дубликаты
type Result struct {
	Created []model.ProductMark `json:"created"`
	Skipped int                 `json:"skipped"`
}

// Ingest обрабатывает партию сырых строк:
// 1. Разбивает ввод по переводам строк, обрезает пробелы, отбрасывает пустые
// 2. Заполняет индекс дедупликации brand существующих записей
// 3. Для каждой строки по порядку: декодирование → классификация → резервирование
// 4. Для новой строки собирает ProductMark со свежим id, текущим временем
//    создания, статусом "В обороте" и пустыми остальными полями
// 5. Дубликаты увеличивают Skipped и не попадают в результат
// Запись результата в хранилище — обязанность вызывающего: он должен слить
// Created с текущим состоянием хранилища одной операцией
func Ingest(raw string, opts Options, existing []model.ProductMark) (*Result, error) {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyBatch
	}

	brands := make([]string, 0, len(existing))
	for _, m := range existing {
		brands = append(brands, m.Brand)
	}
	idx := NewDedupIndex(brands)

	res := &Result{}
	now := time.Now().UTC()
	for _, line := range lines {
		decoded := Decode(line, opts.DecodeBase64)
		c := Classify(decoded)
		if !idx.TryReserve(c.Brand) {
			res.Skipped++
			continue
		}
		res.Created = append(res.Created, model.ProductMark{
			ID:         uuid.NewString(),
			MarkType:   c.MarkType,
			Brand:      c.Brand,
			Datamatrix: decoded,
			Status:     model.StatusActive,
			CreatedAt:  now,
		})
	}
	return res, nil
}
