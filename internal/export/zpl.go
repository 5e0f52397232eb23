package export

import (
	"strings"

	"ProductMarksService/internal/ingest"
	"ProductMarksService/internal/model"
)

// zplEscaper кодирует данные поля ^FD для режима ^FH: служебные символы ZPL
// и разделитель GS1 передаются шестнадцатеричными последовательностями
var zplEscaper = strings.NewReplacer(
	"_", "_5F",
	"^", "_5E",
	"~", "_7E",
	ingest.GS1Separator, "_1D",
)

// BuildZPL собирает поток ZPL с одной этикеткой на марку: товарные поля
// текстом и DataMatrix с полным кодом. Разделители GS1 передаются принтеру
// hex-последовательностью _1D через режим ^FH
func BuildZPL(marks []model.ProductMark) string {
	var b strings.Builder
	for _, m := range marks {
		payload := zplEscaper.Replace(ingest.NormalizeSeparators(m.Datamatrix))
		b.WriteString("^XA\n")
		b.WriteString("^CI28\n")
		b.WriteString("^FO30,30^A0N,28,28^FD" + sanitizeText(m.Product) + "^FS\n")
		b.WriteString("^FO30,70^A0N,24,24^FD" + sanitizeText(m.Barcode) + "^FS\n")
		b.WriteString("^FO30,105^A0N,24,24^FD" + sanitizeText(string(m.MarkType)) + "^FS\n")
		b.WriteString("^FO30,145^BXN,6,200^FH_^FD" + payload + "^FS\n")
		b.WriteString("^XZ\n")
	}
	return b.String()
}

// sanitizeText убирает из текстовых полей символы, управляющие разбором ZPL
func sanitizeText(s string) string {
	return strings.NewReplacer("^", " ", "~", " ").Replace(s)
}
