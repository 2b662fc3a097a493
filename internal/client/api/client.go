// Package api is the typed HTTP client the CLI front-end talks through.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/notehq/notehub/internal/domain/note"
	"github.com/notehq/notehub/internal/domain/profile"
)

// APIError is the decoded server error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("request failed with status %d", e.Status)
}

type Client struct {
	baseURL string
	anonKey string
	token   string
	http    *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken installs the bearer token used for the protected endpoints.
func (c *Client) SetToken(token string) {
	c.token = token
}

type SignUpResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (c *Client) SignUp(email, password, username string) (SignUpResponse, error) {
	var resp SignUpResponse

	err := c.doJSON(http.MethodPost, "/signup", c.anonKey, map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	}, &resp)

	return resp, err
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
}

func (c *Client) Login(email, password string) (LoginResponse, error) {
	var resp LoginResponse

	err := c.doJSON(http.MethodPost, "/login", c.anonKey, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)

	return resp, err
}

func (c *Client) Profile() (profile.Profile, error) {
	var resp struct {
		Profile profile.Profile `json:"profile"`
	}

	err := c.doJSON(http.MethodGet, "/profile", c.token, nil, &resp)

	return resp.Profile, err
}

func (c *Client) ChangePassword(newPassword string) error {
	return c.doJSON(http.MethodPost, "/profile/password", c.token, map[string]string{
		"newPassword": newPassword,
	}, nil)
}

func (c *Client) ListNotes() ([]note.Note, error) {
	var resp struct {
		Notes []note.Note `json:"notes"`
	}

	err := c.doJSON(http.MethodGet, "/notes", c.token, nil, &resp)

	return resp.Notes, err
}

func (c *Client) CreateNote(req note.CreateNoteRequest) (note.Note, error) {
	var resp struct {
		Note note.Note `json:"note"`
	}

	err := c.doJSON(http.MethodPost, "/notes", c.token, req, &resp)

	return resp.Note, err
}

func (c *Client) UpdateNote(id string, req note.UpdateNoteRequest) (note.Note, error) {
	var resp struct {
		Note note.Note `json:"note"`
	}

	err := c.doJSON(http.MethodPut, "/notes/"+id, c.token, req, &resp)

	return resp.Note, err
}

func (c *Client) DeleteNote(id string) error {
	return c.doJSON(http.MethodDelete, "/notes/"+id, c.token, nil, nil)
}

func (c *Client) doJSON(method, path, bearer string, body, out any) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)

		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)

	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := c.http.Do(req)

	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeAPIError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.NewDecoder(res.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}
