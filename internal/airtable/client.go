// Package airtable реализует клиент внешнего табличного хранилища:
// чтение всех записей таблицы по формуле-фильтру и обновление одной записи по идентификатору.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/school-fees/internal/metrics"
)

// DefaultAPIURL адрес публичного API хранилища.
const DefaultAPIURL = "https://api.airtable.com/v0"

const pageSize = 100

// Record запись таблицы.
type Record struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      Fields `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// APIError ответ хранилища с кодом, отличным от 2xx.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable: %d %s", e.StatusCode, e.Type)
}

// Client обращается к одной базе хранилища.
type Client struct {
	apiKey     string
	baseID     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент для базы baseID. Пустой apiURL означает DefaultAPIURL.
func NewClient(apiURL, apiKey, baseID string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		apiKey:     apiKey,
		baseID:     baseID,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method string, path []string, query url.Values, body any) (*http.Request, error) {
	var sb strings.Builder
	sb.WriteString(c.apiURL)
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(c.baseID))
	for _, p := range path {
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(p))
	}
	if len(query) > 0 {
		sb.WriteString("?")
		sb.WriteString(query.Encode())
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, sb.String(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError понимает обе формы ошибки: {"error":"NOT_FOUND"} и {"error":{"type":..,"message":..}}.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Type: http.StatusText(resp.StatusCode)}
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Error) == 0 {
		return apiErr
	}
	var typ string
	if err := json.Unmarshal(body.Error, &typ); err == nil {
		apiErr.Type = typ
		return apiErr
	}
	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &detail); err == nil {
		if detail.Type != "" {
			apiErr.Type = detail.Type
		}
		apiErr.Message = detail.Message
	}
	return apiErr
}

// List возвращает все записи таблицы, удовлетворяющие формуле, проходя по всем страницам.
// Пустая формула означает все записи.
func (c *Client) List(ctx context.Context, table, formula string) ([]Record, error) {
	const op = "airtable.List"
	start := time.Now()
	records, err := c.list(ctx, table, formula)
	metrics.StoreDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	metrics.StoreRequests.WithLabelValues("list", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

func (c *Client) list(ctx context.Context, table, formula string) ([]Record, error) {
	var records []Record
	offset := ""
	for {
		query := url.Values{}
		query.Set("pageSize", fmt.Sprint(pageSize))
		if formula != "" {
			query.Set("filterByFormula", formula)
		}
		if offset != "" {
			query.Set("offset", offset)
		}
		req, err := c.newRequest(ctx, http.MethodGet, []string{table}, query, nil)
		if err != nil {
			return nil, err
		}
		var page listResponse
		if err := c.do(req, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

// Update изменяет указанные поля одной записи и возвращает запись после изменения.
// Поля, не переданные в fields, не трогаются.
func (c *Client) Update(ctx context.Context, table, recordID string, fields map[string]any) (*Record, error) {
	const op = "airtable.Update"
	start := time.Now()
	rec, err := c.update(ctx, table, recordID, fields)
	metrics.StoreDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())
	metrics.StoreRequests.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

func (c *Client) update(ctx context.Context, table, recordID string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	req, err := c.newRequest(ctx, http.MethodPatch, []string{table, recordID}, nil, body)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := c.do(req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
