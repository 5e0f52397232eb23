package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"ProductMarksService/internal/barcode"
	"ProductMarksService/internal/export"
	"ProductMarksService/internal/ingest"
	"ProductMarksService/internal/model"
	"ProductMarksService/internal/repository"
	"ProductMarksService/internal/service"
)

// MarksService задаёт интерфейс бизнес-логики для HTTP-слоя
type MarksService interface {
	Create(ctx context.Context, in service.CreateInput) (*model.ProductMark, error)
	Get(ctx context.Context, id string) (*model.ProductMark, error)
	Update(ctx context.Context, id string, upd model.MarkUpdate) (*model.ProductMark, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]model.ProductMark, int, error)
	ListAll(ctx context.Context) ([]model.ProductMark, error)
	BulkIngest(ctx context.Context, raw string, decodeBase64 bool) (*ingest.Result, error)
	ImportProducts(ctx context.Context, payload ingest.ImportPayload) (*ingest.Result, error)
	Restore(ctx context.Context, marks []model.ProductMark) error
	ClearAll(ctx context.Context) error
}

// GistStore задаёт интерфейс выгрузки состояния во внешнее хранилище сниппетов
type GistStore interface {
	Upload(ctx context.Context, marks []model.ProductMark) (string, error)
	Download(ctx context.Context, id string) ([]model.ProductMark, error)
}

// StateCodec кодирует и декодирует состояние для share-ссылок
type StateCodec interface {
	Encode(marks []model.ProductMark) (string, error)
	Decode(param string) ([]model.ProductMark, error)
}

// Handler содержит зависимости и реализует HTTP-эндпоинты для операций с марками
type Handler struct {
	srv   MarksService
	gist  GistStore
	codec StateCodec
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(srv MarksService, gist GistStore, codec StateCodec) *Handler {
	return &Handler{srv: srv, gist: gist, codec: codec}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Эндпоинты для проверки здоровья и готовности сервиса
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")
	r.HandleFunc("/mark/create", h.Create).Methods("POST")
	r.HandleFunc("/mark/get", h.Get).Methods("GET")
	r.HandleFunc("/mark/update", h.Update).Methods("PATCH")
	r.HandleFunc("/mark/remove", h.Remove).Methods("DELETE")
	r.HandleFunc("/mark/code", h.CodeURL).Methods("GET")
	r.HandleFunc("/marks/list", h.List).Methods("GET")
	r.HandleFunc("/marks/bulk", h.BulkIngest).Methods("POST")
	r.HandleFunc("/marks/import", h.Import).Methods("POST")
	r.HandleFunc("/marks/clear", h.Clear).Methods("DELETE")
	r.HandleFunc("/marks/share", h.Share).Methods("GET")
	r.HandleFunc("/marks/restore", h.Restore).Methods("POST")
	r.HandleFunc("/marks/share/gist", h.ShareGist).Methods("POST")
	r.HandleFunc("/marks/restore/gist", h.RestoreGist).Methods("POST")
	r.HandleFunc("/marks/export/pdf", h.ExportPDF).Methods("GET")
	r.HandleFunc("/marks/export/labels", h.ExportLabels).Methods("GET")
	r.HandleFunc("/marks/export/zpl", h.ExportZPL).Methods("GET")
}

// ErrorResponse модель ошибки API
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Create обрабатывает POST /mark/create
// 1. Декодирует тело запроса с товарными полями и кодом
// 2. Вызывает метод сервиса Create, который классифицирует код
// 3. При успехе возвращает JSON созданной марки
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	mark, err := h.srv.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyBatch) || errors.Is(err, repository.ErrEmptyDatamatrix) {
			writeError(w, http.StatusBadRequest, ErrorResponse{1, "datamatrix cannot be empty", map[string]interface{}{}})
			return
		}
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, mark)
}

// Get обрабатывает GET /mark/get?id=
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	mark, err := h.srv.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrorResponse{3, "errors.common.notFound", map[string]interface{}{}})
		} else {
			writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		}
		return
	}
	writeJSON(w, mark)
}

// Update обрабатывает PATCH /mark/update?id=
// Тело — частичное обновление: отсутствующие поля не меняются
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	var upd model.MarkUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	mark, err := h.srv.Update(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrorResponse{3, "errors.common.notFound", map[string]interface{}{}})
		} else {
			writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		}
		return
	}
	writeJSON(w, mark)
}

// Remove обрабатывает DELETE /mark/remove?id=
// При успешном удалении возвращает JSON {id, removed: true}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	if err := h.srv.Remove(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrorResponse{3, "errors.common.notFound", map[string]interface{}{}})
		} else {
			writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		}
		return
	}
	writeJSON(w, map[string]interface{}{"id": id, "removed": true})
}

// CodeURL обрабатывает GET /mark/code?id=
// Возвращает URL изображения кода у внешнего сервиса рендеринга
func (h *Handler) CodeURL(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	mark, err := h.srv.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrorResponse{3, "errors.common.notFound", map[string]interface{}{}})
		} else {
			writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		}
		return
	}
	writeJSON(w, map[string]string{"url": barcode.CodeURL(*mark)})
}

// List обрабатывает GET /marks/list
// Читает optional параметры limit, offset (по умолчанию 10 и 0)
// Возвращает JSON с полем meta (total, limit, offset) и массивом marks
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := 10, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			limit = i
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			offset = i
		}
	}
	marks, total, err := h.srv.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	resp := struct {
		Meta struct {
			Total  int `json:"total"`
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		} `json:"meta"`
		Marks []model.ProductMark `json:"marks"`
	}{}
	resp.Meta.Total = total
	resp.Meta.Limit = limit
	resp.Meta.Offset = offset
	resp.Marks = marks
	writeJSON(w, resp)
}

// BulkIngest обрабатывает POST /marks/bulk
// Тело: {data: строки кодов через перевод строки, decodeBase64: bool}
// Пустая партия отличается от партии из одних дубликатов: первая — ошибка 400,
// вторая — успех с created=[] и ненулевым skipped
func (h *Handler) BulkIngest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data         string `json:"data"`
		DecodeBase64 bool   `json:"decodeBase64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	res, err := h.srv.BulkIngest(r.Context(), req.Data, req.DecodeBase64)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyBatch) {
			writeError(w, http.StatusBadRequest, ErrorResponse{2, "errors.marks.emptyBatch", map[string]interface{}{}})
			return
		}
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, res)
}

// Import обрабатывает POST /marks/import — JSON-выгрузку товарной системы
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var payload ingest.ImportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	res, err := h.srv.ImportProducts(r.Context(), payload)
	if err != nil {
		if errors.Is(err, ingest.ErrNoProducts) {
			writeError(w, http.StatusBadRequest, ErrorResponse{2, "errors.marks.noProducts", map[string]interface{}{}})
			return
		}
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, res)
}

// Clear обрабатывает DELETE /marks/clear
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.srv.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, map[string]interface{}{"cleared": true})
}

// Share обрабатывает GET /marks/share
// Возвращает компактный URL-параметр с полным состоянием хранилища
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	marks, err := h.srv.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	param, err := h.codec.Encode(marks)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, map[string]interface{}{"param": param, "count": len(marks)})
}

// Restore обрабатывает POST /marks/restore
// Тело: {param: закодированное состояние}; текущее содержимое замещается
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Param string `json:"param"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Param == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	marks, err := h.codec.Decode(req.Param)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid state param", map[string]interface{}{}})
		return
	}
	if err := h.srv.Restore(r.Context(), marks); err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, map[string]interface{}{"restored": len(marks)})
}

// ShareGist обрабатывает POST /marks/share/gist
// Выгружает снимок состояния во внешнее хранилище сниппетов, возвращает его id
func (h *Handler) ShareGist(w http.ResponseWriter, r *http.Request) {
	marks, err := h.srv.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	id, err := h.gist.Upload(r.Context(), marks)
	if err != nil {
		writeError(w, http.StatusBadGateway, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, map[string]interface{}{"gistId": id, "count": len(marks)})
}

// RestoreGist обрабатывает POST /marks/restore/gist
// Тело: {gistId}; скачанный снимок замещает содержимое хранилища
func (h *Handler) RestoreGist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GistID string `json:"gistId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GistID == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	marks, err := h.gist.Download(r.Context(), req.GistID)
	if err != nil {
		writeError(w, http.StatusBadGateway, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	if err := h.srv.Restore(r.Context(), marks); err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writeJSON(w, map[string]interface{}{"restored": len(marks)})
}

// ExportPDF обрабатывает GET /marks/export/pdf — сводный табличный отчёт
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	marks, err := h.srv.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	data, err := export.TableReport(marks, "Product Marks Report")
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writePDF(w, "product-marks", data)
}

// ExportLabels обрабатывает GET /marks/export/labels — документ с карточками
func (h *Handler) ExportLabels(w http.ResponseWriter, r *http.Request) {
	marks, err := h.srv.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	data, err := export.LabelDocument(marks, "Product Marks with Codes")
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	writePDF(w, "product-marks-labels", data)
}

// ExportZPL обрабатывает GET /marks/export/zpl — поток команд этикеток
func (h *Handler) ExportZPL(w http.ResponseWriter, r *http.Request) {
	marks, err := h.srv.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(export.BuildZPL(marks)))
}

func writePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+"-"+time.Now().Format("2006-01-02")+`.pdf"`)
	_, _ = w.Write(data)
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz возвращает готовность сервиса
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
