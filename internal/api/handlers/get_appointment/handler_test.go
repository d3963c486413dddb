package get_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID       string
	gotIdentity domain.Identity
	resp        *models.AppointmentResponse
	err         error
}

func (s *fakeService) GetByID(_ context.Context, id string, identity domain.Identity) (*models.AppointmentResponse, error) {
	s.gotID = id
	s.gotIdentity = identity
	return s.resp, s.err
}

func serve(svc *fakeService, identity *domain.Identity) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/appointments/{appointmentId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/appointments/appt-1", nil)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_OK(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentResponse{ID: "appt-1", Status: "confirmed"}}
	customer := domain.Identity{UserID: "cust-1", Role: domain.RoleCustomer}

	rec := serve(svc, &customer)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "appt-1", svc.gotID)
	assert.Equal(t, customer, svc.gotIdentity)

	var body models.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "confirmed", body.Status)
}

func TestHandler_Errors(t *testing.T) {
	stranger := domain.Identity{UserID: "cust-9", Role: domain.RoleCustomer}

	tests := []struct {
		name       string
		identity   *domain.Identity
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "no identity", wantStatus: 401, wantKind: handlers.KindAuthentication},
		{name: "not found", identity: &stranger, err: appointments.ErrAppointmentNotFound, wantStatus: 404, wantKind: handlers.KindNotFound},
		{name: "not a party", identity: &stranger, err: appointments.ErrAccessDenied, wantStatus: 403, wantKind: handlers.KindAuthorization},
		{name: "internal", identity: &stranger, err: appointments.ErrInternal, wantStatus: 500, wantKind: handlers.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.identity)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}
