package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chemist-edu/apiserver/config"
	"github.com/chemist-edu/apiserver/types"
)

// ErrUnauthorized is returned by API calls rejected with 401.
var ErrUnauthorized = errors.New("unauthorized")

// TokenPair carries the two bearer tokens returned by login/refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthAPI is the remote auth surface the session manager depends on.
// Tests substitute a fake.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (TokenPair, types.Account, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, types.Account, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, accessToken string) (types.Account, error)
}

// APIClient talks to the apiserver's /auth endpoints.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(cfg config.ClientConfig) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type authAPIResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	Account      types.Account `json:"account"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
}

func (c *APIClient) Login(ctx context.Context, username, password string) (TokenPair, types.Account, error) {
	body := map[string]string{"username": username, "password": password}
	var resp authAPIResponse
	if err := c.post(ctx, "/auth/login", body, "", &resp); err != nil {
		return TokenPair{}, types.Account{}, err
	}
	return TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, resp.Account, nil
}

func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (TokenPair, types.Account, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp authAPIResponse
	if err := c.post(ctx, "/auth/refresh", body, "", &resp); err != nil {
		return TokenPair{}, types.Account{}, err
	}
	return TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, resp.Account, nil
}

func (c *APIClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return c.post(ctx, "/auth/logout", body, "", nil)
}

func (c *APIClient) Me(ctx context.Context, accessToken string) (types.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return types.Account{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var account types.Account
	if err := c.do(req, &account); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

func (c *APIClient) post(ctx context.Context, path string, body any, accessToken string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return c.do(req, out)
}

func (c *APIClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server rejected request: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
