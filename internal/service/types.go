// Package service defines the backend-agnostic interface for project and task operations.
package service

import (
	"fmt"
	"strings"
	"time"
)

// User represents an account on the server.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskStatus is a task's workflow state.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// TaskPriority is a task's urgency level.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// ParseStatus converts user input to a TaskStatus.
// Accepts any case; "in-progress" and "in_progress" both work.
func ParseStatus(s string) (TaskStatus, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch TaskStatus(norm) {
	case StatusTodo, StatusInProgress, StatusDone:
		return TaskStatus(norm), nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// ParsePriority converts user input to a TaskPriority.
func ParsePriority(s string) (TaskPriority, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	switch TaskPriority(norm) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(norm), nil
	}
	return "", fmt.Errorf("invalid priority: %s", s)
}

// Task represents a single task item.
type Task struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  string       `json:"assignedTo,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Assignee    *User        `json:"assignee,omitempty"`
}

// Project represents a project.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProjectListItem is a project as returned by the list endpoint.
type ProjectListItem struct {
	Project
	TaskCount int `json:"taskCount"`
}

// ProjectDetail is a project with its tasks embedded.
type ProjectDetail struct {
	Project
	Tasks []Task `json:"tasks"`
}

// ExportState is a server-side export job's lifecycle state.
type ExportState string

const (
	ExportPending    ExportState = "PENDING"
	ExportProcessing ExportState = "PROCESSING"
	ExportCompleted  ExportState = "COMPLETED"
	ExportFailed     ExportState = "FAILED"
)

// Terminal reports whether the job will make no further progress.
func (s ExportState) Terminal() bool {
	return s == ExportCompleted || s == ExportFailed
}

// ExportJob represents a server-side export job.
type ExportJob struct {
	ID          string      `json:"id"`
	ProjectID   string      `json:"projectId"`
	UserID      string      `json:"userId"`
	Status      ExportState `json:"status"`
	FilePath    string      `json:"filePath,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	DownloadURL string      `json:"downloadUrl,omitempty"`
}

// NewProject is the payload for creating a project.
type NewProject struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProjectPatch is a partial project update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// NewTask is the payload for creating a task.
type NewTask struct {
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
	AssignedTo  string       `json:"assignedTo,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	AssignedTo  *string       `json:"assignedTo,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
}

// Apply returns a copy of t with the patch's non-nil fields applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	return t
}

// Apply returns a copy of pr with the patch's non-nil fields applied.
func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	return pr
}
