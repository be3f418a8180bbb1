package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/skipify/internal/services"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request with the stored credential
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if err := r.bootSession(ctx); err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Raw(ctx, r.session.Credential(), http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request with the stored credential
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	if err := r.bootSession(ctx); err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Raw(ctx, r.session.Credential(), http.MethodPost, path, []byte(data))
	if err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
