package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/naveenspark/stays/pkg/domain"
)

// AuthClient talks to the email/password identity service.
type AuthClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAuth creates an identity client rooted at baseURL, e.g.
// https://identitytoolkit.googleapis.com/v1.
func NewAuth(baseURL, apiKey string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// SignUp creates a new account.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	resp, err := c.credentials(ctx, "accounts:signUp", email, password)
	if err != nil {
		return nil, fmt.Errorf("client.SignUp: %w", err)
	}
	return resp, nil
}

// SignInWithPassword signs in to an existing account.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	resp, err := c.credentials(ctx, "accounts:signInWithPassword", email, password)
	if err != nil {
		return nil, fmt.Errorf("client.SignInWithPassword: %w", err)
	}
	return resp, nil
}

func (c *AuthClient) credentials(ctx context.Context, action, email, password string) (*domain.AuthResponse, error) {
	data, err := json.Marshal(credentialsRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+action+"?"+params.Encode(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out domain.AuthResponse
	if err := send(c.httpClient, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
