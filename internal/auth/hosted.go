package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/membership-service/internal/retry"
	"github.com/membership-service/internal/types"
)

// HostedProvider talks to the hosted auth service's admin REST surface.
type HostedProvider struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	retryCfg   *retry.Config
}

// NewHostedProvider creates a provider client for the hosted auth service.
func NewHostedProvider(baseURL, serviceKey string) *HostedProvider {
	return &HostedProvider{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 10 * time.Second},
		retryCfg:   retry.DefaultConfig(),
	}
}

// GetUser fetches the provider's record for a user
func (p *HostedProvider) GetUser(ctx context.Context, userID string) (*User, error) {
	req, err := p.newRequest(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%s", userID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, providerError("get user", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, types.NewServiceError(types.CodeNotFound, fmt.Sprintf("user not found: %s", userID))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, providerError("get user", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, providerError("decode user", err)
	}

	return &user, nil
}

// UpdateUserMetadata merges md into the user's metadata mapping. Transient
// failures are retried with backoff before the error is reported.
func (p *HostedProvider) UpdateUserMetadata(ctx context.Context, userID string, md Metadata) error {
	body, err := json.Marshal(map[string]interface{}{"data": md})
	if err != nil {
		return providerError("marshal metadata", err)
	}

	return retry.Do(ctx, p.retryCfg, func(ctx context.Context) error {
		req, err := p.newRequest(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%s", userID), bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return providerError("update user metadata", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			return providerError("update user metadata", fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		return nil
	})
}

// SignOut revokes the user's sessions with the provider
func (p *HostedProvider) SignOut(ctx context.Context, userID string) error {
	req, err := p.newRequest(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%s/logout", userID), nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return providerError("sign out", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return providerError("sign out", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return nil
}

func (p *HostedProvider) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, p.baseURL+path, nil)
	}
	if err != nil {
		return nil, providerError("build request", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.serviceKey)
	return req, nil
}

func providerError(operation string, err error) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeStoreError,
		Message: fmt.Sprintf("auth provider error during %s", operation),
		Details: map[string]interface{}{
			"operation": operation,
			"cause":     err.Error(),
		},
	}
}
