package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// apiError is the server's error body
type apiError struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func (e apiError) String() string {
	if len(e.Details) == 0 {
		return e.Error
	}
	parts := make([]string, 0, len(e.Details))
	for f, r := range e.Details {
		parts = append(parts, f+": "+r)
	}
	return e.Error + " (" + strings.Join(parts, "; ") + ")"
}

// client talks to the sitebook API with the saved token, if any
type client struct {
	http *resty.Client
}

func newClient() *client {
	c := resty.New().
		SetBaseURL(getAPIURL()).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	if token := loadToken(); token != "" {
		c.SetAuthToken(token)
	}
	return &client{http: c}
}

func (c *client) get(path string, query map[string]string, result any) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetQueryParams(query).
		SetResult(result).
		SetError(&apiErr).
		Get(path)
	return check(resp, err, &apiErr)
}

func (c *client) send(method, path string, body, result any) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Execute(method, path)
	return check(resp, err, &apiErr)
}

func check(resp *resty.Response, err error, apiErr *apiError) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == 401 {
		return errors.New("not authorized; run `sitebook auth login`")
	}
	if apiErr.Error != "" {
		return fmt.Errorf("%d %s", resp.StatusCode(), apiErr)
	}
	return fmt.Errorf("%d %s", resp.StatusCode(), resp.String())
}

func getAPIURL() string {
	if url := os.Getenv("SITEBOOK_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sitebook", "token")
}

func saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(tokenFile()), 0o700); err != nil {
		return err
	}
	return os.WriteFile(tokenFile(), []byte(token), 0o600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return strings.TrimSpace(string(data))
}
