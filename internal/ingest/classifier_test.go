package ingest

import (
	"testing"

	"ProductMarksService/internal/model"
)

// TestClassify_NumericIsKMDM: чисто числовые строки — КМДМ, brand равен всей строке
func TestClassify_NumericIsKMDM(t *testing.T) {
	c := Classify("123456789012")
	if c.MarkType != model.MarkTypeKMDM {
		t.Errorf("ожидался тип КМДМ, получили %s", c.MarkType)
	}
	if c.Brand != "123456789012" {
		t.Errorf("ожидался brand '123456789012', получили '%s'", c.Brand)
	}
}

// TestClassify_SeparatorIsKMCHZ: наличие разделителя GS1 — КМЧЗ, brand равен
// всей декодированной строке
func TestClassify_SeparatorIsKMCHZ(t *testing.T) {
	payload := "0104610037130258215xyz\x1d91FFD0"
	c := Classify(payload)
	if c.MarkType != model.MarkTypeKMCHZ {
		t.Errorf("ожидался тип КМЧЗ, получили %s", c.MarkType)
	}
	if c.Brand != payload {
		t.Errorf("ожидался brand равный всей строке, получили '%s'", c.Brand)
	}
}

// TestClassify_EscapedSeparatorIsKMCHZ: неконвертированная экранированная форма
// разделителя тоже распознаётся
func TestClassify_EscapedSeparatorIsKMCHZ(t *testing.T) {
	c := Classify(`0104610037130258\u001D91FFD0`)
	if c.MarkType != model.MarkTypeKMCHZ {
		t.Errorf("ожидался тип КМЧЗ, получили %s", c.MarkType)
	}
}

// TestClassify_ParenthesesIsKMCHZ: скобки идентификаторов применения — КМЧЗ
func TestClassify_ParenthesesIsKMCHZ(t *testing.T) {
	c := Classify("(01)04610037130258")
	if c.MarkType != model.MarkTypeKMCHZ {
		t.Errorf("ожидался тип КМЧЗ, получили %s", c.MarkType)
	}
}

// TestClassify_LettersIsKMCHZ: буквы в серийной части — КМЧЗ
func TestClassify_LettersIsKMCHZ(t *testing.T) {
	c := Classify("ABC123")
	if c.MarkType != model.MarkTypeKMCHZ {
		t.Errorf("ожидался тип КМЧЗ, получили %s", c.MarkType)
	}
	if c.Brand != "ABC123" {
		t.Errorf("ожидался brand 'ABC123', получили '%s'", c.Brand)
	}
}

// TestClassify_GTINPrefix: 01 + ровно 14 цифр — КМЧЗ с brand из 14 цифр GTIN
func TestClassify_GTINPrefix(t *testing.T) {
	c := Classify("0112345678901231")
	if c.MarkType != model.MarkTypeKMCHZ {
		t.Errorf("ожидался тип КМЧЗ, получили %s", c.MarkType)
	}
	if c.Brand != "12345678901231" {
		t.Errorf("ожидался brand '12345678901231', получили '%s'", c.Brand)
	}
}

// TestClassify_LongNumericIsKMDM: числовая строка длиннее шаблона GTIN
// не подпадает под правило 01+14 и остаётся КМДМ
func TestClassify_LongNumericIsKMDM(t *testing.T) {
	payload := "01123456789012315"
	c := Classify(payload)
	if c.MarkType != model.MarkTypeKMDM {
		t.Errorf("ожидался тип КМДМ, получили %s", c.MarkType)
	}
	if c.Brand != payload {
		t.Errorf("ожидался brand равный всей строке, получили '%s'", c.Brand)
	}
}

// TestClassify_Empty: пустая строка — КМДМ с пустым brand, без ошибок
func TestClassify_Empty(t *testing.T) {
	c := Classify("")
	if c.MarkType != model.MarkTypeKMDM || c.Brand != "" {
		t.Errorf("ожидался КМДМ с пустым brand, получили %s '%s'", c.MarkType, c.Brand)
	}
}
