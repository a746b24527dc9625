package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/thando/renthub/internal/session"
)

// APIClient handles HTTP communication with the backend. It implements
// session.Authenticator so the seeder drives the same session store the
// rest of the codebase uses.
type APIClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Listing struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    int    `json:"price"`
	Location string `json:"location"`
	Rooms    int    `json:"rooms"`
	Verified bool   `json:"verified"`
}

var _ session.Authenticator = (*APIClient)(nil)

func (c *APIClient) SignUp(ctx context.Context, email, password string) (session.Identity, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"name":     email,
	}
	return c.authenticate(ctx, "/auth/register", body)
}

func (c *APIClient) SignIn(ctx context.Context, email, password string) (session.Identity, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	return c.authenticate(ctx, "/auth/login", body)
}

func (c *APIClient) SignOut(ctx context.Context) error {
	resp, err := c.post(ctx, "/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("logout failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	c.setToken("")
	return nil
}

func (c *APIClient) ResetPassword(ctx context.Context, email, redirectTo string) error {
	body := map[string]string{
		"email":      email,
		"redirectTo": redirectTo,
	}
	resp, err := c.post(ctx, "/auth/reset-password", body)
	if err != nil {
		return fmt.Errorf("reset password request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("reset password failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *APIClient) authenticate(ctx context.Context, path string, body any) (session.Identity, error) {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return session.Identity{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return session.Identity{}, fmt.Errorf("auth failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return session.Identity{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.setToken(result.AccessToken)
	return session.Identity{UserID: result.User.ID, Email: result.User.Email}, nil
}

// CreateListing posts a new listing as the signed-in user
func (c *APIClient) CreateListing(ctx context.Context, body map[string]any) (*Listing, error) {
	resp, err := c.post(ctx, "/listings", body)
	if err != nil {
		return nil, fmt.Errorf("create listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create listing failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &listing, nil
}

// ListListings fetches listings with an optional query string
func (c *APIClient) ListListings(ctx context.Context, query string) ([]Listing, error) {
	path := "/listings"
	if query != "" {
		path += "?" + query
	}

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list listings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list listings failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var listings []Listing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return listings, nil
}

func (c *APIClient) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// HTTP helpers

func (c *APIClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *APIClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
