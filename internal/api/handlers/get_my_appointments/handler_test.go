package get_my_appointments

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
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
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
	listCalls int
	getCalls  int
	gotStatus *string
	list      *models.AppointmentListResponse
	err       error
}

func (s *fakeService) ListMine(_ context.Context, _ domain.Identity, status *string) (*models.AppointmentListResponse, error) {
	s.listCalls++
	s.gotStatus = status
	return s.list, s.err
}

func (s *fakeService) GetByID(_ context.Context, id string, _ domain.Identity) (*models.AppointmentResponse, error) {
	s.getCalls++
	return &models.AppointmentResponse{ID: id}, nil
}

var customer = domain.Identity{UserID: "cust-1", Role: domain.RoleCustomer}

// newRouter регистрирует маршруты в том же порядке, что и сервер
func newRouter(svc *fakeService) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/appointments/mine", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{appointmentId}", getAppointmentHandler.NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)
	return r
}

func serve(svc *fakeService, identity *domain.Identity, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)
	return rec
}

func TestHandler_MineIsNotTreatedAsAppointmentID(t *testing.T) {
	svc := &fakeService{list: &models.AppointmentListResponse{
		Appointments: []models.AppointmentResponse{{ID: "appt-1"}, {ID: "appt-2"}},
	}}

	rec := serve(svc, &customer, "/appointments/mine")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.listCalls)
	assert.Equal(t, 0, svc.getCalls)
	assert.Nil(t, svc.gotStatus)

	var body models.AppointmentListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Appointments, 2)

	rec = serve(svc, &customer, "/appointments/appt-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.getCalls)
}

func TestHandler_StatusFilter(t *testing.T) {
	svc := &fakeService{list: &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}}

	rec := serve(svc, &customer, "/appointments/mine?status=confirmed")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotStatus)
	assert.Equal(t, "confirmed", *svc.gotStatus)
	assert.JSONEq(t, `{"appointments":[]}`, rec.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		identity   *domain.Identity
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "no identity", wantStatus: 401, wantKind: handlers.KindAuthentication},
		{name: "bad status", identity: &customer, err: appointments.ErrInvalidInput, wantStatus: 400, wantKind: handlers.KindValidation},
		{name: "unknown role", identity: &customer, err: appointments.ErrUnauthenticated, wantStatus: 401, wantKind: handlers.KindAuthentication},
		{name: "internal", identity: &customer, err: appointments.ErrInternal, wantStatus: 500, wantKind: handlers.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.identity, "/appointments/mine?status=archived")

			require.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}
