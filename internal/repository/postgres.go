package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ProductMarksService/internal/model"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// ErrEmptyDatamatrix возвращается при попытке создать марку без кода
var ErrEmptyDatamatrix = errors.New("datamatrix cannot be empty")

// markColumns — список столбцов таблицы product_marks в порядке чтения
const markColumns = `id, product, barcode, supplier_code, mark_type, brand, datamatrix, status, created_at`

// MarkRepository реализует доступ к таблице product_marks
type MarkRepository struct {
	db *sql.DB
}

// NewMarkRepository создает новый репозиторий марок
func NewMarkRepository(db *sql.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// scanMark читает одну строку результата в модель
func scanMark(row interface{ Scan(...interface{}) error }) (*model.ProductMark, error) {
	var m model.ProductMark
	err := row.Scan(&m.ID, &m.Product, &m.Barcode, &m.SupplierCode, &m.MarkType,
		&m.Brand, &m.Datamatrix, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMark добавляет новую марку в таблицу product_marks
// Идентификатор и время создания заполняются вызывающим и больше не меняются
func (r *MarkRepository) CreateMark(ctx context.Context, m *model.ProductMark) error {
	if m.Datamatrix == "" {
		return ErrEmptyDatamatrix
	}
	query := `INSERT INTO product_marks(` + markColumns + `)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Product, m.Barcode, m.SupplierCode, string(m.MarkType),
		m.Brand, m.Datamatrix, string(m.Status), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert mark: %w", err)
	}
	return nil
}

// GetMark возвращает марку по id
func (r *MarkRepository) GetMark(ctx context.Context, id string) (*model.ProductMark, error) {
	query := `SELECT ` + markColumns + ` FROM product_marks WHERE id=$1`
	m, err := scanMark(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mark: %w", err)
	}
	return m, nil
}

// UpdateMark обновляет поля марки по частичному обновлению, с блокировкой и
// транзакцией. Поля id и created_at неизменяемы и обновлением не затрагиваются
func (r *MarkRepository) UpdateMark(ctx context.Context, id string, upd model.MarkUpdate) (*model.ProductMark, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	// выборка с блокировкой
	selectQuery := `SELECT ` + markColumns + ` FROM product_marks WHERE id=$1 FOR UPDATE`
	m, err := scanMark(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select mark for update: %w", err)
	}
	// применяем только переданные поля
	if upd.Product != nil {
		m.Product = *upd.Product
	}
	if upd.Barcode != nil {
		m.Barcode = *upd.Barcode
	}
	if upd.SupplierCode != nil {
		m.SupplierCode = *upd.SupplierCode
	}
	if upd.MarkType != nil {
		m.MarkType = *upd.MarkType
	}
	if upd.Brand != nil {
		m.Brand = *upd.Brand
	}
	if upd.Datamatrix != nil {
		if *upd.Datamatrix == "" {
			return nil, ErrEmptyDatamatrix
		}
		m.Datamatrix = *upd.Datamatrix
	}
	if upd.Status != nil {
		m.Status = *upd.Status
	}
	updateQuery := `UPDATE product_marks SET product=$1, barcode=$2, supplier_code=$3,
		mark_type=$4, brand=$5, datamatrix=$6, status=$7 WHERE id=$8`
	_, err = tx.ExecContext(ctx, updateQuery,
		m.Product, m.Barcode, m.SupplierCode, string(m.MarkType),
		m.Brand, m.Datamatrix, string(m.Status), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update mark: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return m, nil
}

// DeleteMark удаляет запись марки безвозвратно, с блокировкой и транзакцией
func (r *MarkRepository) DeleteMark(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	// проверка существования с блокировкой
	var existingID string
	row := tx.QueryRowContext(ctx, `SELECT id FROM product_marks WHERE id=$1 FOR UPDATE`, id)
	if err := row.Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to select mark for delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_marks WHERE id=$1`, id); err != nil {
		return fmt.Errorf("failed to delete mark: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMarks возвращает страницу марок и общее количество записей
func (r *MarkRepository) ListMarks(ctx context.Context, limit, offset int) ([]model.ProductMark, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product_marks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count marks: %w", err)
	}
	query := `SELECT ` + markColumns + ` FROM product_marks ORDER BY created_at, id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select marks list: %w", err)
	}
	defer rows.Close()
	var marks []model.ProductMark
	for rows.Next() {
		m, err := scanMark(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan mark: %w", err)
		}
		marks = append(marks, *m)
	}
	return marks, total, nil
}

// ListAllMarks возвращает все марки в порядке создания.
// Используется для заполнения индекса дедупликации, экспорта и шаринга
func (r *MarkRepository) ListAllMarks(ctx context.Context) ([]model.ProductMark, error) {
	query := `SELECT ` + markColumns + ` FROM product_marks ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select all marks: %w", err)
	}
	defer rows.Close()
	var marks []model.ProductMark
	for rows.Next() {
		m, err := scanMark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		marks = append(marks, *m)
	}
	return marks, nil
}

// BulkInsert записывает результат конвейера импорта одной транзакцией,
// чтобы слияние партии с текущим состоянием хранилища было атомарным
func (r *MarkRepository) BulkInsert(ctx context.Context, marks []model.ProductMark) error {
	if len(marks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	query := `INSERT INTO product_marks(` + markColumns + `)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare bulk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, m := range marks {
		_, err := stmt.ExecContext(ctx,
			m.ID, m.Product, m.Barcode, m.SupplierCode, string(m.MarkType),
			m.Brand, m.Datamatrix, string(m.Status), m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert mark %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceAll замещает всё содержимое таблицы переданным набором марок
// одной транзакцией. Используется при восстановлении состояния из share-ссылки
func (r *MarkRepository) ReplaceAll(ctx context.Context, marks []model.ProductMark) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_marks`); err != nil {
		return fmt.Errorf("failed to clear marks: %w", err)
	}
	query := `INSERT INTO product_marks(` + markColumns + `)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare restore insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, m := range marks {
		_, err := stmt.ExecContext(ctx,
			m.ID, m.Product, m.Barcode, m.SupplierCode, string(m.MarkType),
			m.Brand, m.Datamatrix, string(m.Status), m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to restore mark %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClearAll безвозвратно удаляет все марки
func (r *MarkRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM product_marks`); err != nil {
		return fmt.Errorf("failed to clear marks: %w", err)
	}
	return nil
}
