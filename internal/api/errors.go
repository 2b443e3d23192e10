package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError - ошибка валидации от бэкенда (4xx с телом DRF).
// Fields - карта "поле -> сообщения", General - сообщение без привязки к полю.
type ValidationError struct {
	Status  int
	Fields  map[string][]string
	General string
}

func (e *ValidationError) Error() string {
	if e.General != "" {
		return e.General
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

// FieldError возвращает первое сообщение для поля (пустая строка если нет)
func (e *ValidationError) FieldError(field string) string {
	if msgs, ok := e.Fields[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// serverError - не-2xx ответ без тела валидации (5xx, 401, 404 и т.п.)
type serverError struct {
	status int
	body   string
}

func (e *serverError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("backend returned status %d", e.status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.status, e.body)
}

// Ключи DRF, которые означают общую ошибку, а не ошибку поля
var generalErrorKeys = map[string]bool{
	"detail":           true,
	"error":            true,
	"message":          true,
	"non_field_errors": true,
}

// parseValidationBody разбирает тело ошибки DRF.
// Формат нестрогий: значением может быть строка, список строк или что угодно;
// всё неизвестное аккуратно приводится к строкам.
func parseValidationBody(status int, body []byte) *ValidationError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil
	}

	ve := &ValidationError{Status: status, Fields: make(map[string][]string)}
	for key, val := range raw {
		msgs := decodeMessages(val)
		if len(msgs) == 0 {
			continue
		}
		if generalErrorKeys[key] {
			if ve.General == "" {
				ve.General = msgs[0]
			}
			continue
		}
		ve.Fields[key] = msgs
	}

	if len(ve.Fields) == 0 && ve.General == "" {
		return nil
	}
	return ve
}

func decodeMessages(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}
