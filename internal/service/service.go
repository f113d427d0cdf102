// Package service defines the backend-agnostic interface for project and task operations.
package service

import "context"

// Service defines the interface for task server operations.
// All HTTP calls go through this interface.
// Commands never build requests directly.
type Service interface {
	// ListProjects returns the caller's projects with task counts.
	ListProjects(ctx context.Context) ([]ProjectListItem, error)

	// GetProject returns a project with its tasks embedded.
	GetProject(ctx context.Context, projectID string) (ProjectDetail, error)

	// CreateProject creates a new project.
	CreateProject(ctx context.Context, p NewProject) (Project, error)

	// UpdateProject applies a partial update to a project.
	UpdateProject(ctx context.Context, projectID string, patch ProjectPatch) (Project, error)

	// DeleteProject deletes a project and its tasks.
	DeleteProject(ctx context.Context, projectID string) error

	// CreateTask creates a new task in the project named by t.ProjectID.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask applies a partial update to a task.
	// projectID identifies the task's project for local bookkeeping;
	// the server addresses tasks by ID alone.
	UpdateTask(ctx context.Context, projectID, taskID string, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, projectID, taskID string) error

	// StartExport asks the server to begin exporting a project's tasks.
	// The returned job is usually still PENDING.
	StartExport(ctx context.Context, projectID string) (ExportJob, error)

	// ExportStatus returns the current state of an export job.
	ExportStatus(ctx context.Context, exportID string) (ExportJob, error)

	// DownloadExport retrieves the finished export payload.
	DownloadExport(ctx context.Context, exportID string) ([]byte, error)
}
