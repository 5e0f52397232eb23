package ingest

import (
	"encoding/base64"
	"errors"
	"testing"

	"ProductMarksService/internal/model"
)

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

// TestConvertProducts_Success: коды маркировки декодируются из base64 и
// получают товарные поля выгрузки
func TestConvertProducts_Success(t *testing.T) {
	payload := ImportPayload{Products: []ImportedProduct{{
		ID:          "p1",
		ProductCode: "SKU-1",
		ProductName: "Товар",
		Barcodes:    []string{"4601234567890", "4609999999999"},
		VendorCode:  "V-42",
		Markcodes:   []string{b64("ABC123"), b64("123456789012")},
	}}}
	res, err := ConvertProducts(payload, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Created) != 2 || res.Skipped != 0 {
		t.Fatalf("ожидалось 2 созданных марки, получили %d/%d", len(res.Created), res.Skipped)
	}
	first := res.Created[0]
	if first.Product != "SKU-1" || first.SupplierCode != "V-42" {
		t.Errorf("товарные поля не заполнены: %+v", first)
	}
	if first.Barcode != "4601234567890" {
		t.Errorf("ожидался первый штрих-код, получили '%s'", first.Barcode)
	}
	if first.MarkType != model.MarkTypeKMCHZ || first.Datamatrix != "ABC123" {
		t.Errorf("неожиданная классификация: %s/%s", first.MarkType, first.Datamatrix)
	}
	if res.Created[1].MarkType != model.MarkTypeKMDM {
		t.Errorf("числовой код должен классифицироваться как КМДМ")
	}
}

// TestConvertProducts_Dedup: дубликаты отбрасываются и относительно
// существующих записей, и внутри выгрузки
func TestConvertProducts_Dedup(t *testing.T) {
	payload := ImportPayload{Products: []ImportedProduct{
		{ID: "p1", ProductCode: "SKU-1", Markcodes: []string{b64("ABC123"), b64("ABC123")}},
		{ID: "p2", ProductCode: "SKU-2", Markcodes: []string{b64("111")}},
	}}
	existing := []model.ProductMark{{ID: "old", Brand: "111"}}
	res, err := ConvertProducts(payload, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Created) != 1 || res.Skipped != 2 {
		t.Fatalf("ожидалась 1 созданная и 2 пропущенных, получили %d/%d", len(res.Created), res.Skipped)
	}
	if res.Created[0].Brand != "ABC123" {
		t.Errorf("ожидался brand 'ABC123', получили '%s'", res.Created[0].Brand)
	}
}

// TestConvertProducts_NoProducts: пустая выгрузка — отдельная ошибка
func TestConvertProducts_NoProducts(t *testing.T) {
	_, err := ConvertProducts(ImportPayload{}, nil)
	if !errors.Is(err, ErrNoProducts) {
		t.Fatalf("ожидалась ErrNoProducts, получили %v", err)
	}
}
