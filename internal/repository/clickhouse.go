package repository

import (
	"context"
	"database/sql"
	"log"
	"time"

	"ProductMarksService/internal/model"
)

// ClickhouseRepo реализует пакетную запись событий изменения марок в ClickHouse
type ClickhouseRepo struct {
	db *sql.DB
}

// NewClickhouseRepo создаёт новый репозиторий для ClickHouse
func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db}
}

// BatchInsertEvents записывает пакет событий в таблицу mark_events_log.
// Строка содержит поля марки, действие и время события
func (r *ClickhouseRepo) BatchInsertEvents(ctx context.Context, events []model.MarkEvent) error {
	// начинаем 'транзакцию' для batch insert (clickhouse-go собирает блок при PrepareContext)
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	log.Printf("Начало пакетной вставки %d событий в ClickHouse", len(events))
	// PrepareContext для одной строки; clickhouse-go соберёт несколько Exec в один блок
	query := `INSERT INTO mark_events_log (Id, Product, Barcode, SupplierCode, MarkType, Brand, Datamatrix, Status, Action, EventTime) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range events {
		eventTime := e.EventTime
		if eventTime.IsZero() {
			eventTime = time.Now()
		}
		_, err := stmt.ExecContext(ctx,
			e.Mark.ID, e.Mark.Product, e.Mark.Barcode, e.Mark.SupplierCode,
			string(e.Mark.MarkType), e.Mark.Brand, e.Mark.Datamatrix,
			string(e.Mark.Status), e.Action, eventTime,
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Успешно вставлено %d событий в ClickHouse", len(events))
	return nil
}
