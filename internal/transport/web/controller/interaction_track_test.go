package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/domain"
)

type stubTrackCmd struct {
	gotReq command.TrackInteractionRequest
	err    error
	called bool
}

func (s *stubTrackCmd) Execute(
	_ context.Context, req command.TrackInteractionRequest,
) (command.Empty, error) {
	s.called = true
	s.gotReq = req
	return command.Empty{}, s.err
}

func TestInteractionTrack_ServeHTTP(t *testing.T) {
	cases := []struct {
		name       string
		cardID     string
		body       string
		cmdErr     error
		wantStatus int
		wantCalled bool
		wantType   domain.InteractionType
	}{
		{
			name:       "view",
			cardID:     "42",
			body:       `{"type":"view","duration_seconds":30}`,
			wantStatus: http.StatusNoContent,
			wantCalled: true,
			wantType:   domain.InteractionView,
		},
		{
			name:       "purchase",
			cardID:     "42",
			body:       `{"type":"purchase"}`,
			wantStatus: http.StatusNoContent,
			wantCalled: true,
			wantType:   domain.InteractionPurchase,
		},
		{
			name:       "unknown_type",
			cardID:     "42",
			body:       `{"type":"teleport"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid_body",
			cardID:     "42",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "card_missing",
			cardID:     "42",
			body:       `{"type":"like"}`,
			cmdErr:     domain.ErrCardNotFound,
			wantStatus: http.StatusNotFound,
			wantCalled: true,
			wantType:   domain.InteractionLike,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &stubTrackCmd{err: tc.cmdErr}
			controller := InteractionTrack{TrackCmd: cmd}

			req := httptest.NewRequest(http.MethodPost,
				"/v1/cards/"+tc.cardID+"/interactions", strings.NewReader(tc.body))
			req = mux.SetURLVars(req, map[string]string{"card_id": tc.cardID})
			req = testContextWithUserID("user1")(req)
			rec := httptest.NewRecorder()

			controller.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, cmd.called)
			if tc.wantCalled {
				assert.Equal(t, "user1", cmd.gotReq.UserID)
				assert.Equal(t, int64(42), cmd.gotReq.CardID)
				assert.Equal(t, tc.wantType, cmd.gotReq.Type)
			}
		})
	}
}
