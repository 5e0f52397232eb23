// Пакет export формирует печатные документы по списку марок: PDF-отчёты
// и поток этикеток ZPL
package export

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"ProductMarksService/internal/model"
)

// labelRowHeight — высота одной карточки марки в документе этикеток, мм
const labelRowHeight = 60

// maxPayloadLines и payloadLineLen ограничивают вывод длинного кода на карточке
const (
	maxPayloadLines = 6
	payloadLineLen  = 25
)

// orDash подставляет прочерк вместо пустого значения
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate обрезает строку до n символов с многоточием
func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// TableReport строит альбомный PDF-отчёт со сводной таблицей марок
func TableReport(marks []model.ProductMark, title string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageNumber(props.PageNumber{Pattern: "Page {current} of {total}", Place: props.RightBottom}).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, title, props.Text{Size: 16, Style: fontstyle.Bold}))
	m.AddRow(8, text.NewCol(12, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), props.Text{Size: 9}))
	m.AddRow(8, text.NewCol(12, fmt.Sprintf("Total records: %d", len(marks)), props.Text{Size: 9}))

	header := props.Text{Size: 8, Style: fontstyle.Bold}
	m.AddRow(8,
		text.NewCol(2, "Product", header),
		text.NewCol(2, "Barcode", header),
		text.NewCol(2, "Supplier Code", header),
		text.NewCol(1, "Type", header),
		text.NewCol(3, "Brand", header),
		text.NewCol(1, "Status", header),
		text.NewCol(1, "Created", header),
	)
	cell := props.Text{Size: 8}
	for _, mark := range marks {
		m.AddRow(7,
			text.NewCol(2, orDash(mark.Product), cell),
			text.NewCol(2, orDash(mark.Barcode), cell),
			text.NewCol(2, orDash(mark.SupplierCode), cell),
			text.NewCol(1, string(mark.MarkType), cell),
			text.NewCol(3, truncate(mark.Brand, 20), cell),
			text.NewCol(1, string(mark.Status), cell),
			text.NewCol(1, mark.CreatedAt.Format("02.01.2006"), cell),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate table report: %w", err)
	}
	return doc.GetBytes(), nil
}

// LabelDocument строит книжный PDF с карточкой на каждую марку: товарные поля
// слева, полный код порциями по payloadLineLen символов справа
func LabelDocument(marks []model.ProductMark, title string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{Pattern: "Page {current} of {total}", Place: props.RightBottom}).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, title, props.Text{Size: 16, Style: fontstyle.Bold}))
	m.AddRow(8, text.NewCol(12, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), props.Text{Size: 9}))

	for _, mark := range marks {
		left := col.New(6).Add(
			text.New("Product: "+orDash(mark.Product), props.Text{Size: 11, Style: fontstyle.Bold}),
			text.New("Barcode: "+orDash(mark.Barcode), props.Text{Size: 9, Top: 8}),
			text.New("Supplier Code: "+orDash(mark.SupplierCode), props.Text{Size: 9, Top: 14}),
			text.New("Type: "+string(mark.MarkType), props.Text{Size: 9, Top: 20}),
			text.New("Status: "+string(mark.Status), props.Text{Size: 9, Top: 26}),
			text.New("Brand: "+truncate(mark.Brand, 30), props.Text{Size: 9, Top: 32}),
		)
		right := col.New(6).Add(text.New("Datamatrix:", props.Text{Size: 8}))
		for i, line := range splitPayload(mark.Datamatrix) {
			right.Add(text.New(line, props.Text{Size: 8, Top: float64(6 + i*5)}))
		}
		m.AddRow(labelRowHeight, left, right)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate label document: %w", err)
	}
	return doc.GetBytes(), nil
}

// splitPayload режет код на строки фиксированной длины для вывода на карточке
func splitPayload(payload string) []string {
	runes := []rune(payload)
	var lines []string
	for len(runes) > 0 && len(lines) < maxPayloadLines {
		n := payloadLineLen
		if n > len(runes) {
			n = len(runes)
		}
		lines = append(lines, string(runes[:n]))
		runes = runes[n:]
	}
	return lines
}
