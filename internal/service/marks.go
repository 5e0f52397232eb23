package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"ProductMarksService/internal/ingest"
	"ProductMarksService/internal/model"
)

// Repo определяет интерфейс репозитория для операций с марками
// Реализация может быть на основе базы данных Postgres
type Repo interface {
	CreateMark(ctx context.Context, m *model.ProductMark) error
	GetMark(ctx context.Context, id string) (*model.ProductMark, error)
	UpdateMark(ctx context.Context, id string, upd model.MarkUpdate) (*model.ProductMark, error)
	DeleteMark(ctx context.Context, id string) error
	ListMarks(ctx context.Context, limit, offset int) ([]model.ProductMark, int, error)
	ListAllMarks(ctx context.Context) ([]model.ProductMark, error)
	BulkInsert(ctx context.Context, marks []model.ProductMark) error
	ReplaceAll(ctx context.Context, marks []model.ProductMark) error
	ClearAll(ctx context.Context) error
}

// Cache определяет интерфейс кэширования результатов операций (Redis)
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, key string) error
}

// Logger определяет интерфейс публикации событий аудита (NATS)
type Logger interface {
	PublishLog(data []byte) error
}

// cacheTTL задаёт время жизни записей в кэше, по умолчанию 1 минута или из REDIS_TTL
var cacheTTL = time.Minute

func init() {
	if v := os.Getenv("REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheTTL = d
		}
	}
}

// CreateInput — входные данные ручного создания одной марки.
// Тип и brand определяются классификатором по коду
type CreateInput struct {
	Product      string `json:"product"`
	Barcode      string `json:"barcode"`
	SupplierCode string `json:"supplierCode"`
	Datamatrix   string `json:"datamatrix"`
}

// MarksService реализует бизнес-логику для марок:
// - классификация и сборка сущностей при создании и массовом импорте
// - вызовы репозитория для CRUD операций
// - кэширование результатов и инвалидирование
// - публикация событий аудита в лог
type MarksService struct {
	repo   Repo
	cache  Cache
	logger Logger
}

// NewMarksService создаёт новый сервис марок
func NewMarksService(r Repo, c Cache, l Logger) *MarksService {
	return &MarksService{repo: r, cache: c, logger: l}
}

// publishEvent сериализует и отправляет событие аудита; сбой публикации
// не прерывает основную операцию
func (s *MarksService) publishEvent(mark model.ProductMark, action string) error {
	data, err := json.Marshal(model.MarkEvent{Mark: mark, Action: action, EventTime: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.logger.PublishLog(data)
}

// invalidateMark сбрасывает кэш списка и конкретной марки
func (s *MarksService) invalidateMark(ctx context.Context, id string) {
	_ = s.cache.Invalidate(ctx, "marks:list")
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("mark:%s", id))
}

// Create создаёт одну марку:
// 1. Валидирует, что код не пустой
// 2. Декодирует и классифицирует код тем же путём, что и массовый импорт
// 3. Сохраняет запись и инвалидирует кэш
// 4. Публикует событие create
func (s *MarksService) Create(ctx context.Context, in CreateInput) (*model.ProductMark, error) {
	decoded := ingest.Decode(in.Datamatrix, false)
	if decoded == "" {
		return nil, ingest.ErrEmptyBatch
	}
	c := ingest.Classify(decoded)
	mark := &model.ProductMark{
		ID:           uuid.NewString(),
		Product:      in.Product,
		Barcode:      in.Barcode,
		SupplierCode: in.SupplierCode,
		MarkType:     c.MarkType,
		Brand:        c.Brand,
		Datamatrix:   decoded,
		Status:       model.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateMark(ctx, mark); err != nil {
		return nil, err
	}
	s.invalidateMark(ctx, mark.ID)
	_ = s.publishEvent(*mark, "create")
	return mark, nil
}

// Get возвращает марку по id:
// 1. Пытается получить из кэша Redis
// 2. При промахе кэша запрашивает из репозитория
// 3. Сохраняет результат в кэш
func (s *MarksService) Get(ctx context.Context, id string) (*model.ProductMark, error) {
	key := fmt.Sprintf("mark:%s", id)
	if bytes, err := s.cache.Get(ctx, key); err == nil {
		var m model.ProductMark
		_ = json.Unmarshal(bytes, &m)
		return &m, nil
	}
	mark, err := s.repo.GetMark(ctx, id)
	if err != nil {
		return nil, err
	}
	data, _ := json.Marshal(mark)
	_ = s.cache.Set(ctx, key, data, cacheTTL)
	return mark, nil
}

// Update применяет частичное обновление полей марки, инвалидирует кэш и
// публикует событие update. Поля id и createdAt изменить нельзя
func (s *MarksService) Update(ctx context.Context, id string, upd model.MarkUpdate) (*model.ProductMark, error) {
	mark, err := s.repo.UpdateMark(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.invalidateMark(ctx, id)
	_ = s.publishEvent(*mark, "update")
	return mark, nil
}

// Remove безвозвратно удаляет марку и публикует полный удалённый объект:
// 1. Получает существующий объект
// 2. Удаляет запись
// 3. Инвалидирует кэш и публикует событие delete
func (s *MarksService) Remove(ctx context.Context, id string) error {
	mark, err := s.repo.GetMark(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMark(ctx, id); err != nil {
		return err
	}
	s.invalidateMark(ctx, id)
	if err := s.publishEvent(*mark, "delete"); err != nil {
		return err
	}
	return nil
}

// listResponse — кэшируемый ответ списка
type listResponse struct {
	Marks []model.ProductMark `json:"marks"`
	Meta  struct {
		Total  int `json:"total"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	} `json:"meta"`
}

// List возвращает страницу марок с метаданными:
// 1. Пытается получить из кэша по ключу с limit/offset
// 2. При промахе кэша запрашивает из репозитория
// 3. Кэширует ответ
func (s *MarksService) List(ctx context.Context, limit, offset int) ([]model.ProductMark, int, error) {
	key := fmt.Sprintf("marks:list:%d:%d", limit, offset)
	if bytes, err := s.cache.Get(ctx, key); err == nil {
		var resp listResponse
		_ = json.Unmarshal(bytes, &resp)
		return resp.Marks, resp.Meta.Total, nil
	}
	marks, total, err := s.repo.ListMarks(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	var resp listResponse
	resp.Marks = marks
	resp.Meta.Total = total
	resp.Meta.Limit = limit
	resp.Meta.Offset = offset
	data, _ := json.Marshal(resp)
	_ = s.cache.Set(ctx, key, data, cacheTTL)
	return marks, total, nil
}

// ListAll возвращает полный снимок хранилища для экспорта и share-ссылок
func (s *MarksService) ListAll(ctx context.Context) ([]model.ProductMark, error) {
	return s.repo.ListAllMarks(ctx)
}

// BulkIngest обрабатывает партию сырых строк кодов:
// 1. Читает полный снимок хранилища для заполнения индекса дедупликации
// 2. Прогоняет конвейер декодирование → классификация → дедупликация
// 3. Записывает созданные марки одной транзакцией (единственный писатель,
//    потерянные обновления исключены)
// 4. Инвалидирует кэш списка и публикует событие на каждую созданную марку
// Возвращает созданные записи и количество отброшенных дубликатов
func (s *MarksService) BulkIngest(ctx context.Context, raw string, decodeBase64 bool) (*ingest.Result, error) {
	existing, err := s.repo.ListAllMarks(ctx)
	if err != nil {
		return nil, err
	}
	res, err := ingest.Ingest(raw, ingest.Options{DecodeBase64: decodeBase64}, existing)
	if err != nil {
		return nil, err
	}
	if err := s.repo.BulkInsert(ctx, res.Created); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "marks:list")
	for _, m := range res.Created {
		_ = s.publishEvent(m, "create")
	}
	return res, nil
}

// ImportProducts импортирует JSON-выгрузку товарной системы: коды маркировки
// декодируются из base64 и проходят тот же конвейер, что и массовый ввод
func (s *MarksService) ImportProducts(ctx context.Context, payload ingest.ImportPayload) (*ingest.Result, error) {
	existing, err := s.repo.ListAllMarks(ctx)
	if err != nil {
		return nil, err
	}
	res, err := ingest.ConvertProducts(payload, existing)
	if err != nil {
		return nil, err
	}
	if err := s.repo.BulkInsert(ctx, res.Created); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "marks:list")
	for _, m := range res.Created {
		_ = s.publishEvent(m, "create")
	}
	return res, nil
}

// Restore замещает содержимое хранилища набором марок из share-ссылки
func (s *MarksService) Restore(ctx context.Context, marks []model.ProductMark) error {
	if err := s.repo.ReplaceAll(ctx, marks); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, "marks:list")
	return nil
}

// ClearAll безвозвратно удаляет все марки и публикует событие clear
func (s *MarksService) ClearAll(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, "marks:list")
	_ = s.publishEvent(model.ProductMark{}, "clear")
	return nil
}
