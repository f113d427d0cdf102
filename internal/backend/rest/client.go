// Package rest implements the service.Service interface against the task
// server's HTTP API.
package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

const (
	// APITimeout is the timeout for JSON API calls.
	APITimeout = 10 * time.Second

	// DownloadTimeout is the timeout for export downloads, which can be
	// considerably larger than a JSON response.
	DownloadTimeout = 60 * time.Second
)

// Client implements service.Service over HTTP.
type Client struct {
	api *api.Client
}

// New creates a client for the configured server. token may be empty for
// auth endpoints (register, login).
func New(cfg *config.Config, token string) *Client {
	return &Client{api: api.New(cfg.BaseURL, token)}
}

// NewWithGateway creates a client on an existing gateway (for testing).
func NewWithGateway(gw *api.Client) *Client {
	return &Client{api: gw}
}

var _ service.Service = (*Client)(nil)

// AuthResult is the server's response to register and login.
type AuthResult struct {
	User  service.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and returns a fresh session.
func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := map[string]string{"name": name, "email": email, "password": password}
	var res AuthResult
	if err := c.api.Do(ctx, http.MethodPost, "/auth/register", body, &res); err != nil {
		return AuthResult{}, err
	}
	return res, nil
}

// Login authenticates and returns a fresh session.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := map[string]string{"email": email, "password": password}
	var res AuthResult
	if err := c.api.Do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return AuthResult{}, err
	}
	return res, nil
}

// ListProjects returns the caller's projects with task counts.
func (c *Client) ListProjects(ctx context.Context) ([]service.ProjectListItem, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []service.ProjectListItem
	if err := c.api.Do(ctx, http.MethodGet, "/projects", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetProject returns a project with its tasks embedded.
func (c *Client) GetProject(ctx context.Context, projectID string) (service.ProjectDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var detail service.ProjectDetail
	if err := c.api.Do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID), nil, &detail); err != nil {
		return service.ProjectDetail{}, err
	}
	return detail, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, p service.NewProject) (service.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var created service.Project
	if err := c.api.Do(ctx, http.MethodPost, "/projects", p, &created); err != nil {
		return service.Project{}, err
	}
	return created, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID string, patch service.ProjectPatch) (service.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var updated service.Project
	if err := c.api.Do(ctx, http.MethodPatch, "/projects/"+url.PathEscape(projectID), patch, &updated); err != nil {
		return service.Project{}, err
	}
	return updated, nil
}

// DeleteProject deletes a project and its tasks.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return c.api.Do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(projectID), nil, nil)
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var created service.Task
	if err := c.api.Do(ctx, http.MethodPost, "/tasks", t, &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// UpdateTask applies a partial update to a task. The server addresses tasks
// by ID alone; projectID is only meaningful to caching layers above.
func (c *Client) UpdateTask(ctx context.Context, projectID, taskID string, patch service.TaskPatch) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var updated service.Task
	if err := c.api.Do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID), patch, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return c.api.Do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID), nil, nil)
}

// startExportResponse is the server's acknowledgement of a new export job.
type startExportResponse struct {
	ExportID string              `json:"exportId"`
	Status   service.ExportState `json:"status"`
	Message  string              `json:"message"`
}

// StartExport asks the server to begin exporting a project's tasks.
func (c *Client) StartExport(ctx context.Context, projectID string) (service.ExportJob, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var res startExportResponse
	if err := c.api.Do(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/export", nil, &res); err != nil {
		return service.ExportJob{}, err
	}
	return service.ExportJob{
		ID:        res.ExportID,
		ProjectID: projectID,
		Status:    res.Status,
	}, nil
}

// ExportStatus returns the current state of an export job.
func (c *Client) ExportStatus(ctx context.Context, exportID string) (service.ExportJob, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var job service.ExportJob
	if err := c.api.Do(ctx, http.MethodGet, "/exports/"+url.PathEscape(exportID), nil, &job); err != nil {
		return service.ExportJob{}, err
	}
	return job, nil
}

// DownloadExport retrieves the finished export payload.
func (c *Client) DownloadExport(ctx context.Context, exportID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, DownloadTimeout)
	defer cancel()

	return c.api.Raw(ctx, "/exports/"+url.PathEscape(exportID)+"/download")
}
