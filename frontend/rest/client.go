// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/netapp/storage-api/config"
	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage"
	"github.com/netapp/storage-api/utils/errors"
)

// Client is a minimal read-only client of the storage API used by the CLI.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for the server at endpoint ("host:port" or a full URL).
func NewClient(endpoint string, timeout time.Duration) *Client {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	return &Client{
		baseURL: strings.TrimSuffix(endpoint, "/") + config.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, response interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		request.Header.Set(requestIDHeader, requestID)
	}

	Logc(ctx).WithFields(LogFields{
		"method": request.Method,
		"url":    request.URL.String(),
	}).Debug("Sending REST request.")

	resp, err := c.client.Do(request)
	if err != nil {
		return errors.BackendUnavailableError(err, http.MethodGet, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.BackendUnavailableError(err, http.MethodGet, endpoint)
	}

	Logc(ctx).WithFields(LogFields{
		"status": resp.StatusCode,
		"length": len(body),
	}).Debug("Received REST response.")

	if resp.StatusCode >= http.StatusBadRequest {
		errResponse := &ErrorResponse{}
		if jsonErr := json.Unmarshal(body, errResponse); jsonErr != nil || errResponse.Error == "" {
			errResponse.Error = fmt.Sprintf("%s %s returned %s", http.MethodGet, endpoint, resp.Status)
		}
		return errorFromResponse(errResponse, http.MethodGet, endpoint)
	}

	if err = json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("could not decode response from %s; %w", endpoint, err)
	}
	return nil
}

// errorFromResponse rebuilds the domain error reported by the server.
func errorFromResponse(response *ErrorResponse, method, endpoint string) error {
	switch errors.Kind(response.Kind) {
	case errors.KindNotFound:
		return errors.NotFoundError("%s", response.Error)
	case errors.KindAlreadyExists:
		return errors.AlreadyExistsError("%s", response.Error)
	case errors.KindValidation:
		return errors.ValidationError(response.Field, "%s", response.Error)
	case errors.KindForbidden:
		return errors.ForbiddenError("%s", response.Error)
	case errors.KindBackendUnavailable:
		return errors.BackendUnavailableError(errors.New(response.Error), method, endpoint)
	default:
		return errors.UnmappedBackendError(errors.New(response.Error), method, endpoint)
	}
}

func (c *Client) GetVersion(ctx context.Context) (*VersionResponse, error) {
	response := &VersionResponse{}
	if err := c.get(ctx, "/version", response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) ListVolumes(ctx context.Context) ([]*storage.Volume, error) {
	response := &VolumesResponse{}
	if err := c.get(ctx, "/volumes", response); err != nil {
		return nil, err
	}
	return response.Volumes, nil
}

// GetVolume accepts a volume name or junction-path address.
func (c *Client) GetVolume(ctx context.Context, id string) (*storage.Volume, error) {
	response := &VolumeResponse{}
	if err := c.get(ctx, "/volumes/"+url.PathEscape(id), response); err != nil {
		return nil, err
	}
	return response.Volume, nil
}

func (c *Client) ListPolicies(ctx context.Context) ([]*storage.Policy, error) {
	response := &PoliciesResponse{}
	if err := c.get(ctx, "/policies", response); err != nil {
		return nil, err
	}
	return response.Policies, nil
}
