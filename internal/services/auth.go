package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
)

// LoginResult is the body of a successful /auth/login.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Login exchanges email and password for a bearer credential.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		anonymous:   true,
		body:        body,
		contentType: "application/json",
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.AccessToken == "" || result.User == nil {
		return nil, fmt.Errorf("%w: login response missing token or user", shared.ErrAuthFailed)
	}
	result.User.Tag(models.SourceRemote)
	return &result, nil
}

// Register creates an account. The server requires a password of at least eight characters.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body, err := jsonBody(map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return err
	}

	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/register",
		anonymous:   true,
		body:        body,
		contentType: "application/json",
	}, nil)
}
