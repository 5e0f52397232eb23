package model

import "time"

// MarkType — тип кода маркировки
type MarkType string

const (
	// MarkTypeKMDM — простые числовые/серийные марки (КМДМ), отображаются QR-кодом
	MarkTypeKMDM MarkType = "КМДМ"
	// MarkTypeKMCHZ — марки со структурой GS1 (КМЧЗ), требуют DataMatrix с разделителями полей
	MarkTypeKMCHZ MarkType = "КМЧЗ"
)

// MarkStatus — статус жизненного цикла марки, редактируется пользователем
type MarkStatus string

const (
	StatusActive  MarkStatus = "В обороте"
	StatusRetired MarkStatus = "Выбыла"
	StatusBroken  MarkStatus = "Сломана"
)

// ProductMark представляет запись марки товара (таблица product_marks)
// Brand — канонический идентификатор, по которому выполняется дедупликация
// и который кодируется в изображение кода
// Datamatrix — полная декодированная строка, сохраняется для рендеринга и аудита
type ProductMark struct {
	ID           string     `db:"id" json:"id"`
	Product      string     `db:"product" json:"product"`
	Barcode      string     `db:"barcode" json:"barcode"`
	SupplierCode string     `db:"supplier_code" json:"supplierCode"`
	MarkType     MarkType   `db:"mark_type" json:"markType"`
	Brand        string     `db:"brand" json:"brand"`
	Datamatrix   string     `db:"datamatrix" json:"datamatrix"`
	Status       MarkStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// MarkUpdate описывает частичное обновление марки: nil-поля не изменяются
// ID и CreatedAt неизменяемы и поэтому здесь отсутствуют
type MarkUpdate struct {
	Product      *string     `json:"product,omitempty"`
	Barcode      *string     `json:"barcode,omitempty"`
	SupplierCode *string     `json:"supplierCode,omitempty"`
	MarkType     *MarkType   `json:"markType,omitempty"`
	Brand        *string     `json:"brand,omitempty"`
	Datamatrix   *string     `json:"datamatrix,omitempty"`
	Status       *MarkStatus `json:"status,omitempty"`
}

// MarkEvent — событие изменения марки для журнала событий в ClickHouse
// Action — тип операции: create, update, delete или clear
type MarkEvent struct {
	Mark      ProductMark `json:"mark"`
	Action    string      `json:"action"`
	EventTime time.Time   `json:"eventTime"`
}
