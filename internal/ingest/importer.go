package ingest

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"ProductMarksService/internal/model"
)

// ErrNoProducts возвращается при импорте полезной нагрузки без товаров
var ErrNoProducts = errors.New("products array is empty")

// ImportedProduct — элемент JSON-выгрузки внешней товарной системы.
// Markcodes содержат коды маркировки в base64
type ImportedProduct struct {
	ID          string   `json:"id"`
	ProductCode string   `json:"productCode"`
	ProductName string   `json:"productName"`
	Barcodes    []string `json:"barcodes"`
	VendorCode  string   `json:"vendorCode"`
	Markcodes   []string `json:"markcodes"`
}

// ImportPayload — корневой объект JSON-выгрузки
type ImportPayload struct {
	Products []ImportedProduct `json:"products"`
}

// ConvertProducts превращает импортированные товары в записи марок.
// Каждый markcode декодируется из base64 (сбой — passthrough, как в Decode)
// и классифицируется тем же конвейером, что и массовый ввод строк; дубликаты
// по brand отбрасываются относительно существующих записей и внутри выгрузки.
// В отличие от массового ввода, товарные поля заполняются из выгрузки:
// product — код товара, barcode — первый штрих-код, supplierCode — код поставщика
func ConvertProducts(payload ImportPayload, existing []model.ProductMark) (*Result, error) {
	if len(payload.Products) == 0 {
		return nil, ErrNoProducts
	}

	brands := make([]string, 0, len(existing))
	for _, m := range existing {
		brands = append(brands, m.Brand)
	}
	idx := NewDedupIndex(brands)

	res := &Result{}
	now := time.Now().UTC()
	for _, p := range payload.Products {
		barcode := ""
		if len(p.Barcodes) > 0 {
			barcode = p.Barcodes[0]
		}
		for _, code := range p.Markcodes {
			decoded := Decode(code, true)
			if decoded == "" {
				continue
			}
			c := Classify(decoded)
			if !idx.TryReserve(c.Brand) {
				res.Skipped++
				continue
			}
			res.Created = append(res.Created, model.ProductMark{
				ID:           uuid.NewString(),
				Product:      p.ProductCode,
				Barcode:      barcode,
				SupplierCode: p.VendorCode,
				MarkType:     c.MarkType,
				Brand:        c.Brand,
				Datamatrix:   decoded,
				Status:       model.StatusActive,
				CreatedAt:    now,
			})
		}
	}
	return res, nil
}
