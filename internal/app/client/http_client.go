package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"alfup/internal/app/client/config"
	"alfup/internal/domain/alfresco"
)

const (
	authAPI = "/alfresco/api/-default-/public/authentication/versions/1"
	coreAPI = "/alfresco/api/-default-/public/alfresco/versions/1"

	contentTypeJSON  = "application/json"
	contentTypeOctet = "application/octet-stream"
)

// httpClient строит запросы к двум группам API репозитория
// (аутентификация и контент) и разбирает конверты ответов.
// HTTP статус не интерпретируется: успех и ошибка различаются
// только по полям entry/error в теле.
type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		log:       log,
		baseURL:   cfg.BaseURL(),
		userAgent: "Alfup-Client/1.0",
	}, nil
}

// Login запрашивает тикет. Заголовок авторизации не ставится.
func (h *httpClient) Login(ctx context.Context, username, password string) (*alfresco.Envelope, error) {
	body, err := json.Marshal(map[string]string{
		"userId":   username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
	}

	headers := map[string]string{"Content-Type": contentTypeJSON}

	raw, err := h.post(ctx, h.baseURL+authAPI+"/tickets", headers, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return alfresco.DecodeEnvelope(raw)
}

// ValidateTicket проверяет тикет обращением к серверу: локально судить
// о сроке действия нельзя, тикет для клиента непрозрачен
func (h *httpClient) ValidateTicket(ctx context.Context, ticket string) (*alfresco.Envelope, error) {
	raw, err := h.get(ctx, h.baseURL+authAPI+"/tickets/-me-", h.ticketHeaders(ticket, ""))
	if err != nil {
		return nil, err
	}
	return alfresco.DecodeEnvelope(raw)
}

// CreateContentNode создает пустой узел cm:content в корне пользователя
func (h *httpClient) CreateContentNode(ctx context.Context, name, ticket string) (*alfresco.Envelope, error) {
	body, err := json.Marshal(map[string]string{
		"name":     name,
		"nodeType": alfresco.TypeContent,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
	}

	raw, err := h.post(ctx, h.baseURL+coreAPI+"/nodes/-my-/children",
		h.ticketHeaders(ticket, contentTypeJSON), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return alfresco.DecodeEnvelope(raw)
}

// UploadContent заливает сырые байты в созданный узел
func (h *httpClient) UploadContent(ctx context.Context, nodeID string, content []byte, ticket string) (*alfresco.Envelope, error) {
	raw, err := h.put(ctx, h.baseURL+coreAPI+"/nodes/"+nodeID+"/content",
		h.ticketHeaders(ticket, contentTypeOctet), bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return alfresco.DecodeEnvelope(raw)
}

// ticketHeaders собирает заголовки с авторизацией по тикету.
// Репозиторий ждет Basic со схемой base64(тикет) - именно сырой тикет,
// а не пара user:pass. Это сознательное упрощение протокола, не править.
func (h *httpClient) ticketHeaders(ticket, contentType string) map[string]string {
	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(ticket)),
	}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return headers
}

func (h *httpClient) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return h.do(ctx, http.MethodGet, url, headers, nil)
}

func (h *httpClient) post(ctx context.Context, url string, headers map[string]string, body io.Reader) ([]byte, error) {
	return h.do(ctx, http.MethodPost, url, headers, body)
}

func (h *httpClient) put(ctx context.Context, url string, headers map[string]string, body io.Reader) ([]byte, error) {
	return h.do(ctx, http.MethodPut, url, headers, body)
}

// do выполняет ровно один сетевой вызов: без повторов и без
// интерпретации ответа - тело отдается вызывающему как есть
func (h *httpClient) do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", alfresco.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: чтение ответа: %v", alfresco.ErrTransport, err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"bytes", len(raw),
	)

	return raw, nil
}
