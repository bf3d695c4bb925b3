package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/membership-service/internal/retry"
	"github.com/membership-service/internal/types"
)

func newTestProvider(url string) *HostedProvider {
	p := NewHostedProvider(url, "service-key")
	p.retryCfg = &retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
	return p
}

func TestHostedProvider_GetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/users/user-1" {
			t.Errorf("path = %s, want /admin/users/user-1", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-key" {
			t.Errorf("Authorization = %s, want Bearer service-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"alice@example.com","metadata":{"walletAddress":"0xabc"}}`))
	}))
	defer server.Close()

	user, err := newTestProvider(server.URL).GetUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %s, want alice@example.com", user.Email)
	}
	if user.Metadata.WalletAddress != "0xabc" {
		t.Errorf("WalletAddress = %s, want 0xabc", user.Metadata.WalletAddress)
	}
}

func TestHostedProvider_GetUserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).GetUser(context.Background(), "nobody")
	if err == nil {
		t.Fatal("GetUser() error = nil, want error")
	}
	if !types.IsCode(err, types.CodeNotFound) {
		t.Errorf("error = %v, want code %s", err, types.CodeNotFound)
	}
}

func TestHostedProvider_UpdateUserMetadataRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestProvider(server.URL).UpdateUserMetadata(context.Background(), "user-1", Metadata{WalletAddress: "0xabc"})
	if err != nil {
		t.Fatalf("UpdateUserMetadata() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestHostedProvider_SignOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/users/user-1/logout" || r.Method != http.MethodPost {
			t.Errorf("%s %s, want POST /admin/users/user-1/logout", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := newTestProvider(server.URL).SignOut(context.Background(), "user-1"); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
}
