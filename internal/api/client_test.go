package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session := NewSession()
	session.SetTokens("test-token", "test-refresh")

	c := NewClient(srv.URL, session, zap.NewNop())
	c.retryBase = time.Millisecond
	return c, srv
}

func TestLoginStoresTokens(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vet", body["username"])

		json.NewEncoder(w).Encode(map[string]string{
			"access":  "new-access",
			"refresh": "new-refresh",
			"message": "Login exitoso",
		})
	}))
	c.session.Clear()

	err := c.Login(context.Background(), "vet", "secret")

	require.NoError(t, err)
	assert.Equal(t, "new-access", c.session.AccessToken())
	assert.Equal(t, "new-refresh", c.session.RefreshToken())
}

func TestCalendarWeekSendsBearerAndDate(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "/appointments/calendar_week/", r.URL.Path)
		assert.Equal(t, "2024-06-12", r.URL.Query().Get("date"))

		json.NewEncoder(w).Encode(map[string]any{
			"citas": []map[string]any{
				{"id": 1, "pet": 3, "service": 2, "appointment_date": "2024-06-12T09:00:00-05:00", "status": "pendiente"},
			},
		})
	}))

	appts, err := c.CalendarWeek(context.Background(), "2024-06-12")

	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, int64(1), appts[0].ID)
	assert.Equal(t, model.StatusPendiente, appts[0].Status)
}

func TestCalendarWeekAcceptsAppointmentsKey(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"appointments": []map[string]any{{"id": 7}},
		})
	}))

	appts, err := c.CalendarWeek(context.Background(), "2024-06-12")

	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, int64(7), appts[0].ID)
}

func TestPickListsAcceptBothShapes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pets/":
			// Голый массив
			json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "name": "Firulais"}})
		case "/services/":
			// Обёртка пагинации DRF
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{"id": 2, "name": "Baño Medicado", "requires_medication": true}},
			})
		default:
			http.NotFound(w, r)
		}
	}))

	pets, err := c.Pets(context.Background())
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Firulais", pets[0].Name)

	services, err := c.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.True(t, services[0].RequiresMedication)
}

func TestCreateAppointmentValidationError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"pet":              []string{"This field is required."},
			"non_field_errors": []string{"Horario no disponible"},
		})
	}))

	_, err := c.CreateAppointment(context.Background(), &AppointmentPayload{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "This field is required.", ve.FieldError("pet"))
	assert.Equal(t, "Horario no disponible", ve.General)
}

func TestValidationErrorStringValue(t *testing.T) {
	// DRF иногда отдаёт строку вместо списка
	ve := parseValidationBody(400, []byte(`{"appointment_date": "Las citas deben ser entre 8:00 AM y 4:00 PM"}`))

	require.NotNil(t, ve)
	assert.Equal(t, "Las citas deben ser entre 8:00 AM y 4:00 PM", ve.FieldError("appointment_date"))
}

func TestGetRetriesOn5xx(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"citas": []any{}})
	}))

	_, err := c.CalendarWeek(context.Background(), "2024-06-12")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestMutationsAreNotRetried(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.CreateAppointment(context.Background(), &AppointmentPayload{Pet: 1})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDeleteAppointment(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/appointments/42/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteAppointment(context.Background(), 42))
}

func TestUpdateStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appointments/42/update_status/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cancelada", body["status"])

		json.NewEncoder(w).Encode(map[string]string{"status": "cancelada"})
	}))

	require.NoError(t, c.UpdateStatus(context.Background(), 42, model.StatusCancelada))
}

func TestUnauthorizedSurfacesAsGenericFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token expirado"})
	}))

	_, err := c.CalendarWeek(context.Background(), "2024-06-12")

	// 401 не обрабатывается особым образом - это общий отказ запроса
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Token expirado", ve.General)
}
