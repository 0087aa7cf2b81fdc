package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/raffa/internal/errors"
	inHttp "github.com/Alturino/raffa/internal/http"
)

func TestFailure(t *testing.T) {
	testCases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "missing cart",
			err:        fmt.Errorf("failed loading cart with error=%w", inErrors.ErrCartNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unavailable item",
			err:        fmt.Errorf("%w name=Kikiam", inErrors.ErrItemUnavailable),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "menu service down",
			err: fmt.Errorf(
				"%w: failed fetching catalog with error=%w",
				inErrors.ErrUpstream,
				&inHttp.UpstreamError{StatusCode: http.StatusInternalServerError, Message: "boom"},
			),
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "order service rejection is passed through",
			err: fmt.Errorf(
				"failed placing order with error=%w",
				&inHttp.UpstreamError{StatusCode: http.StatusConflict, Message: "insufficient stock for Fishball"},
			),
			wantStatus:  http.StatusConflict,
			wantMessage: "insufficient stock for Fishball",
		},
		{
			name:       "anything else",
			err:        fmt.Errorf("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, err := failure(tc.err)

			assert.Equal(t, tc.wantStatus, status)
			if tc.wantMessage != "" {
				assert.EqualError(t, err, tc.wantMessage)
			}
		})
	}
}
