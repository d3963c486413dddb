package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (u *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	u.got = req
	return u.resp, u.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/professionals/{professionalId}/available-slots", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Success(t *testing.T) {
	date, err := types.ParseDate("2026-03-02")
	require.NoError(t, err)

	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		ProfessionalID: "pro-1",
		Date:           date,
		Timezone:       "America/New_York",
		Slots: []domain.AvailableSlot{
			{StartTime: "14:00", LocalDate: date, LocalStartTime: "09:00"},
		},
	}}

	rec := serve(uc, "/professionals/pro-1/available-slots?date=2026-03-02&serviceDuration=60")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, &getAvailableSlots.Request{ProfessionalID: "pro-1", Date: "2026-03-02", ServiceDuration: 60}, uc.got)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "America/New_York", body.Timezone)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, AvailableSlot{StartTime: "14:00", LocalDate: "2026-03-02", LocalStartTime: "09:00"}, body.Slots[0])
}

func TestHandler_BadQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "missing date", target: "/professionals/pro-1/available-slots?serviceDuration=60"},
		{name: "missing duration", target: "/professionals/pro-1/available-slots?date=2026-03-02"},
		{name: "non numeric duration", target: "/professionals/pro-1/available-slots?date=2026-03-02&serviceDuration=hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(uc, tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandler_UseCaseErrors(t *testing.T) {
	rec := serve(&fakeUseCase{err: getAvailableSlots.ErrProfessionalNotFound}, "/professionals/x/available-slots?date=2026-03-02&serviceDuration=60")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(&fakeUseCase{err: getAvailableSlots.ErrInvalidInput}, "/professionals/x/available-slots?date=2026-02-30&serviceDuration=60")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeUseCase{err: getAvailableSlots.ErrInternal}, "/professionals/x/available-slots?date=2026-03-02&serviceDuration=60")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
