// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-scan/models"
)

// ErrNotLoggedIn is returned by Mark before a successful Login
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the attendance server on behalf of one scanner station
type Client struct {
	baseURL    string
	deviceUUID string
	http       *http.Client
	token      string
}

// New returns a client for the server at baseURL. deviceUUID is sent as
// X-Device-UUID on every request when non-empty.
func New(baseURL, deviceUUID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		deviceUUID: deviceUUID,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Login exchanges credentials for a session token kept by the client
func (c *Client) Login(ctx context.Context, enrollment, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/login", models.LoginRequest{
		Enrollment: enrollment,
		Password:   password,
	}, &resp)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	c.token = resp.Token
	return resp, nil
}

// SetToken uses an existing session token
func (c *Client) SetToken(token string) {
	c.token = token
}

// RegisterDevice registers this station with the given kind
func (c *Client) RegisterDevice(ctx context.Context, kind string) (models.RegisterDeviceResponse, error) {
	var resp models.RegisterDeviceResponse
	if err := c.do(ctx, http.MethodPost, "/devices/register", models.RegisterDeviceRequest{Kind: kind}, &resp); err != nil {
		return models.RegisterDeviceResponse{}, fmt.Errorf("register device: %w", err)
	}
	return resp, nil
}

// Mark records attendance for the scanned code. An already-marked response
// is not an error; check AlreadyMarked.
func (c *Client) Mark(ctx context.Context, code string) (models.MarkAttendanceResponse, error) {
	if c.token == "" {
		return models.MarkAttendanceResponse{}, ErrNotLoggedIn
	}

	var resp models.MarkAttendanceResponse
	if err := c.do(ctx, http.MethodPost, "/attendance/mark", models.MarkAttendanceRequest{Code: code}, &resp); err != nil {
		return models.MarkAttendanceResponse{}, fmt.Errorf("mark %s: %w", code, err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.deviceUUID != "" {
		req.Header.Set("X-Device-UUID", c.deviceUUID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
