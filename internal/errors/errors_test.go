package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/membership-service/internal/types"
)

func TestGetHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "invalid input",
			err:  types.NewServiceError(types.CodeInvalidInput, "bad address"),
			want: http.StatusBadRequest,
		},
		{
			name: "user rejected",
			err:  types.NewServiceError(types.CodeUserRejected, "rejected"),
			want: http.StatusBadRequest,
		},
		{
			name: "not authenticated",
			err:  types.NewServiceError(types.CodeNotAuthenticated, "no session"),
			want: http.StatusUnauthorized,
		},
		{
			name: "signature mismatch",
			err:  types.NewServiceError(types.CodeSignatureMismatch, "mismatch"),
			want: http.StatusUnauthorized,
		},
		{
			name: "wallet already linked",
			err:  types.NewServiceError(types.CodeWalletAlreadyLinked, "conflict"),
			want: http.StatusConflict,
		},
		{
			name: "not found",
			err:  types.NewServiceError(types.CodeNotFound, "missing"),
			want: http.StatusNotFound,
		},
		{
			name: "store error",
			err:  types.NewServiceError(types.CodeStoreError, "down"),
			want: http.StatusInternalServerError,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsUserError(t *testing.T) {
	if !IsUserError(types.NewServiceError(types.CodeInvalidInput, "bad input")) {
		t.Error("IsUserError() = false for invalid input, want true")
	}
	if IsUserError(types.NewServiceError(types.CodeStoreError, "down")) {
		t.Error("IsUserError() = true for store error, want false")
	}
}

func TestCategorizedErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("write profile", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() = false, want wrapped cause to match")
	}
	if err.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, http.StatusInternalServerError)
	}
}
