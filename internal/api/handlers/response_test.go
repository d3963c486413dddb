package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "validation", err: domain.NewValidationError("startTime", "must be HH:MM"), wantStatus: 400, wantKind: KindValidation},
		{name: "authentication", err: fmt.Errorf("x: %w", domain.ErrAuthentication), wantStatus: 401, wantKind: KindAuthentication},
		{name: "authorization", err: fmt.Errorf("x: %w", domain.ErrAuthorization), wantStatus: 403, wantKind: KindAuthorization},
		{name: "not found", err: fmt.Errorf("x: %w", domain.ErrNotFound), wantStatus: 404, wantKind: KindNotFound},
		{
			name:       "invalid transition",
			err:        &domain.InvalidTransitionError{Action: domain.ActionConfirm, Status: domain.StatusCompleted},
			wantStatus: 400,
			wantKind:   KindInvalidTransition,
		},
		{name: "time conversion", err: fmt.Errorf("x: %w", domain.ErrTimeConversion), wantStatus: 400, wantKind: KindTimeConversion},
		{name: "conflict", err: fmt.Errorf("x: %w", domain.ErrConflict), wantStatus: 409, wantKind: KindConflict},
		{name: "unknown", err: errors.New("boom"), wantStatus: 500, wantKind: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, kind := Classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestRespondDomainError_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, &domain.InvalidTransitionError{Action: domain.ActionComplete, Status: domain.StatusPendingProfessionalApproval})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 400, body.Code)
	assert.Equal(t, KindInvalidTransition, body.Kind)
	assert.Contains(t, body.Message, "complete")
	assert.Contains(t, body.Message, "pending_professional_approval")
}

func TestRespondDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Action string `json:"action"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"action":"confirm"}`},
		{name: "unknown field", body: `{"action":"confirm","extra":1}`, wantErr: true},
		{name: "broken", body: `{"action":`, wantErr: true},
		{name: "two objects", body: `{"action":"a"}{"action":"b"}`, wantErr: true},
		{name: "too large", body: `{"action":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSON(req, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "confirm", dst.Action)
		})
	}
}
