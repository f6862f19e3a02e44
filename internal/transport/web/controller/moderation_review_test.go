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

type stubReviewCmd struct {
	gotReq command.ReviewCardRequest
	err    error
	called bool
}

func (s *stubReviewCmd) Execute(
	_ context.Context, req command.ReviewCardRequest,
) (command.Empty, error) {
	s.called = true
	s.gotReq = req
	return command.Empty{}, s.err
}

func TestModerationReview_ServeHTTP(t *testing.T) {
	cases := []struct {
		name       string
		cardID     string
		body       string
		cmdErr     error
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "approve",
			cardID:     "42",
			body:       `{"action":"approve","notes":"looks fine"}`,
			wantStatus: http.StatusNoContent,
			wantCalled: true,
		},
		{
			name:       "reject",
			cardID:     "42",
			body:       `{"action":"reject"}`,
			wantStatus: http.StatusNoContent,
			wantCalled: true,
		},
		{
			name:       "invalid_action",
			cardID:     "42",
			body:       `{"action":"escalate"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid_body",
			cardID:     "42",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid_card_id",
			cardID:     "abc",
			body:       `{"action":"approve"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "queue_entry_missing",
			cardID:     "42",
			body:       `{"action":"approve"}`,
			cmdErr:     domain.ErrQueueEntryNotFound,
			wantStatus: http.StatusNotFound,
			wantCalled: true,
		},
		{
			name:       "concurrent_review_conflict",
			cardID:     "42",
			body:       `{"action":"approve"}`,
			cmdErr:     domain.ErrReviewConflict,
			wantStatus: http.StatusConflict,
			wantCalled: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &stubReviewCmd{err: tc.cmdErr}
			controller := ModerationReview{ReviewCmd: cmd}

			req := httptest.NewRequest(http.MethodPost,
				"/v1/moderation/cards/"+tc.cardID+"/review", strings.NewReader(tc.body))
			req = mux.SetURLVars(req, map[string]string{"card_id": tc.cardID})
			req = testContextWithUserID("mod1")(req)
			rec := httptest.NewRecorder()

			controller.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, cmd.called)
			if tc.wantCalled {
				assert.Equal(t, int64(42), cmd.gotReq.CardID)
				assert.Equal(t, "mod1", cmd.gotReq.ReviewerID)
			}
		})
	}
}
