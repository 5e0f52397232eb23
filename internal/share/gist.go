package share

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ProductMarksService/internal/model"
)

// gistFileName — имя файла с данными внутри gist
const gistFileName = "product-marks.json"

// ErrGistNotFound возвращается, когда gist с указанным id не существует
var ErrGistNotFound = errors.New("gist not found")

// GistClient выгружает и скачивает массив марок через GitHub Gist API.
// Токен не обязателен: без него создаются анонимные gist
type GistClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewGistClient создаёт клиент Gist API с заданным токеном (может быть пустым)
func NewGistClient(token string) *GistClient {
	return &GistClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.github.com",
		token:      token,
	}
}

// gistFile — файл внутри gist
type gistFile struct {
	Content string `json:"content"`
}

// gistPayload — тело запроса создания gist
type gistPayload struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

// gistResponse — интересующая часть ответа Gist API
type gistResponse struct {
	ID    string              `json:"id"`
	Files map[string]gistFile `json:"files"`
}

func (c *GistClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// Upload создаёт приватный gist с сериализованным массивом марок и
// возвращает его id для размещения в share-ссылке
func (c *GistClient) Upload(ctx context.Context, marks []model.ProductMark) (string, error) {
	content, err := json.Marshal(marks)
	if err != nil {
		return "", fmt.Errorf("failed to marshal marks: %w", err)
	}
	body, err := json.Marshal(gistPayload{
		Description: "Product marks snapshot",
		Public:      false,
		Files:       map[string]gistFile{gistFileName: {Content: string(content)}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gist payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/gists", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gist request: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create gist: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("gist API returned status %d", resp.StatusCode)
	}
	var out gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode gist response: %w", err)
	}
	return out.ID, nil
}

// Download читает gist по id и восстанавливает массив марок из его файла
func (c *GistClient) Download(ctx context.Context, id string) ([]model.ProductMark, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gists/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gist request: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gist: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrGistNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gist API returned status %d", resp.StatusCode)
	}
	var out gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode gist response: %w", err)
	}
	file, ok := out.Files[gistFileName]
	if !ok {
		return nil, fmt.Errorf("gist %s does not contain %s", id, gistFileName)
	}
	var marks []model.ProductMark
	if err := json.Unmarshal([]byte(file.Content), &marks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal marks: %w", err)
	}
	return marks, nil
}
