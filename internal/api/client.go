// Package api - клиент REST-бэкенда клиники.
//
// Бэкенд владеет всеми данными (владельцы, питомцы, услуги, записи);
// бот держит только сквозной кеш видимой недели и после каждой мутации
// перечитывает её целиком.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/model"
)

const (
	defaultTimeout = 20 * time.Second
	maxGetRetries  = 2
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *zap.Logger

	// База бэкоффа для повторов GET, уменьшается в тестах
	retryBase time.Duration
}

func NewClient(baseURL string, session *Session, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		session:   session,
		logger:    logger,
		retryBase: 250 * time.Millisecond,
	}
}

// AppointmentPayload - тело создания/обновления записи
type AppointmentPayload struct {
	Pet                  int64                   `json:"pet"`
	Service              int64                   `json:"service"`
	AssignedProfessional *int64                  `json:"assigned_professional,omitempty"`
	AppointmentDate      string                  `json:"appointment_date"`
	Reason               string                  `json:"reason"`
	Status               model.AppointmentStatus `json:"status,omitempty"`
	MedicationType       string                  `json:"medication_type"`
	MedicationDosage     string                  `json:"medication_dosage"`
	Instructions         string                  `json:"instructions"`
	Observations         string                  `json:"observations"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Message string `json:"message"`
}

// Login получает пару токенов и кладёт их в сессию
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}

	var resp loginResponse
	data, err := c.do(ctx, http.MethodPost, "/auth/login/", body)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if resp.Access == "" {
		return errors.New("login response contains no access token")
	}

	c.session.SetTokens(resp.Access, resp.Refresh)
	c.logger.Info("Logged in to clinic backend", zap.String("username", username))
	return nil
}

// RefreshSession обновляет access-токен по refresh-токену
func (c *Client) RefreshSession(ctx context.Context) error {
	body := map[string]string{"refresh": c.session.RefreshToken()}

	data, err := c.do(ctx, http.MethodPost, "/auth/token/refresh/", body)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if resp.Access == "" {
		return errors.New("refresh response contains no access token")
	}

	c.session.SetTokens(resp.Access, resp.Refresh)
	return nil
}

type calendarWeekResponse struct {
	// Бэкенд исторически отдаёт "citas", более новые ревизии - "appointments";
	// принимаем оба ключа
	Citas        []*model.Appointment `json:"citas"`
	Appointments []*model.Appointment `json:"appointments"`
}

// CalendarWeek загружает записи недели, содержащей дату dateKey (YYYY-MM-DD)
func (c *Client) CalendarWeek(ctx context.Context, dateKey string) ([]*model.Appointment, error) {
	path := "/appointments/calendar_week/?date=" + url.QueryEscape(dateKey)

	data, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar week %s: %w", dateKey, err)
	}

	var resp calendarWeekResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode calendar week: %w", err)
	}
	if resp.Citas != nil {
		return resp.Citas, nil
	}
	return resp.Appointments, nil
}

// Pets загружает справочник питомцев
func (c *Client) Pets(ctx context.Context) ([]*model.Pet, error) {
	return fetchList[*model.Pet](ctx, c, "/pets/")
}

// Services загружает справочник услуг
func (c *Client) Services(ctx context.Context) ([]*model.Service, error) {
	return fetchList[*model.Service](ctx, c, "/services/")
}

// Professionals загружает справочник специалистов
func (c *Client) Professionals(ctx context.Context) ([]*model.Professional, error) {
	return fetchList[*model.Professional](ctx, c, "/professionals/")
}

// CreateAppointment создаёт запись
func (c *Client) CreateAppointment(ctx context.Context, payload *AppointmentPayload) (*model.Appointment, error) {
	data, err := c.do(ctx, http.MethodPost, "/appointments/", payload)
	if err != nil {
		return nil, err
	}
	var appt model.Appointment
	if err := json.Unmarshal(data, &appt); err != nil {
		return nil, fmt.Errorf("decode created appointment: %w", err)
	}
	c.logger.Info("Appointment created",
		zap.Int64("appointment_id", appt.ID),
		zap.String("date", appt.AppointmentDate))
	return &appt, nil
}

// UpdateAppointment полностью обновляет запись
func (c *Client) UpdateAppointment(ctx context.Context, id int64, payload *AppointmentPayload) (*model.Appointment, error) {
	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/appointments/%d/", id), payload)
	if err != nil {
		return nil, err
	}
	var appt model.Appointment
	if err := json.Unmarshal(data, &appt); err != nil {
		return nil, fmt.Errorf("decode updated appointment: %w", err)
	}
	c.logger.Info("Appointment updated", zap.Int64("appointment_id", id))
	return &appt, nil
}

// DeleteAppointment удаляет запись безвозвратно
func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/appointments/%d/", id), nil); err != nil {
		return fmt.Errorf("delete appointment %d: %w", id, err)
	}
	c.logger.Info("Appointment deleted", zap.Int64("appointment_id", id))
	return nil
}

// UpdateStatus меняет только статус записи
func (c *Client) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	body := map[string]string{"status": string(status)}
	path := fmt.Sprintf("/appointments/%d/update_status/", id)
	if _, err := c.do(ctx, http.MethodPatch, path, body); err != nil {
		return fmt.Errorf("update status of appointment %d: %w", id, err)
	}
	c.logger.Info("Appointment status updated",
		zap.Int64("appointment_id", id),
		zap.String("status", string(status)))
	return nil
}

// fetchList загружает справочник, принимая и голый массив,
// и обёртку пагинации {"results": [...]}
func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err == nil && page.Results != nil {
		return page.Results, nil
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return list, nil
}

// get выполняет идемпотентный GET с повтором при временных сбоях
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	backoff := retry.WithMaxRetries(maxGetRetries, retry.NewFibonacci(c.retryBase))

	var data []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var derr error
		data, derr = c.do(ctx, http.MethodGet, path, nil)
		if isTransient(derr) {
			return retry.RetryableError(derr)
		}
		return derr
	})
	return data, err
}

// isTransient: 5xx и сетевые сбои можно повторить, остальное - нет
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *serverError
	if errors.As(err, &se) {
		return se.status >= http.StatusInternalServerError
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// do выполняет запрос и возвращает тело ответа.
// 400 с телом валидации превращается в *ValidationError,
// прочие не-2xx - в *serverError.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	c.logger.Warn("Backend returned error",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		if ve := parseValidationBody(resp.StatusCode, data); ve != nil {
			return nil, ve
		}
	}
	return nil, &serverError{status: resp.StatusCode, body: string(data)}
}
