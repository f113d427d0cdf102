// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taskdeck/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	projects []service.Project
	tasks    map[string][]service.Task // projectID -> tasks
	nextID   int

	// Error injection for testing
	ListProjectsErr  error
	GetProjectErr    error
	CreateProjectErr error
	UpdateProjectErr error
	DeleteProjectErr error
	CreateTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error
	StartExportErr   error
	ExportStatusErr  error
	DownloadErr      error

	// UpdateTaskRelease, when non-nil, blocks UpdateTask until the channel
	// yields, letting tests observe optimistic state mid-flight.
	UpdateTaskRelease chan struct{}

	// Call counters
	ListProjectsCalls int
	GetProjectCalls   int

	// Export scripting: ExportStatus returns ExportStates in order, repeating
	// the last entry once the script runs out.
	ExportStates  []service.ExportState
	DownloadData  []byte
	StatusCalls   int
	DownloadCalls int
	startCalls    int

	// Poll overlap detection
	statusInFlight    int
	MaxStatusInFlight int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:        make(map[string][]service.Task),
		DownloadData: []byte("id,title,status\n"),
	}
}

// AddProject adds a project to the fake service.
func (f *FakeService) AddProject(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, service.Project{ID: id, Name: name, OwnerID: "user-1"})
	if f.tasks[id] == nil {
		f.tasks[id] = nil
	}
}

// AddTask adds a task to a project.
func (f *FakeService) AddTask(projectID, taskID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[projectID] = append(f.tasks[projectID], service.Task{
		ID:        taskID,
		ProjectID: projectID,
		Title:     title,
		Status:    service.StatusTodo,
		Priority:  service.PriorityMedium,
	})
}

// Task returns a copy of a stored task for assertions.
func (f *FakeService) Task(projectID, taskID string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks[projectID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return service.Task{}, false
}

// StatusCallCount reads the poll counter without racing a polling goroutine.
func (f *FakeService) StatusCallCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.StatusCalls
}

// ListProjects implements service.Service.
func (f *FakeService) ListProjects(ctx context.Context) ([]service.ProjectListItem, error) {
	f.mu.Lock()
	f.ListProjectsCalls++
	f.mu.Unlock()
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.ProjectListItem, 0, len(f.projects))
	for _, p := range f.projects {
		result = append(result, service.ProjectListItem{
			Project:   p,
			TaskCount: len(f.tasks[p.ID]),
		})
	}
	return result, nil
}

// GetProject implements service.Service.
func (f *FakeService) GetProject(ctx context.Context, projectID string) (service.ProjectDetail, error) {
	f.mu.Lock()
	f.GetProjectCalls++
	f.mu.Unlock()
	if f.GetProjectErr != nil {
		return service.ProjectDetail{}, f.GetProjectErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.projects {
		if p.ID == projectID {
			tasks := make([]service.Task, len(f.tasks[projectID]))
			copy(tasks, f.tasks[projectID])
			return service.ProjectDetail{Project: p, Tasks: tasks}, nil
		}
	}
	return service.ProjectDetail{}, ErrNotFound
}

// CreateProject implements service.Service.
func (f *FakeService) CreateProject(ctx context.Context, p service.NewProject) (service.Project, error) {
	if f.CreateProjectErr != nil {
		return service.Project{}, f.CreateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	created := service.Project{
		ID:          fmt.Sprintf("proj-%d", f.nextID),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     "user-1",
	}
	f.projects = append(f.projects, created)
	f.tasks[created.ID] = nil
	return created, nil
}

// UpdateProject implements service.Service.
func (f *FakeService) UpdateProject(ctx context.Context, projectID string, patch service.ProjectPatch) (service.Project, error) {
	if f.UpdateProjectErr != nil {
		return service.Project{}, f.UpdateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.projects {
		if p.ID == projectID {
			f.projects[i] = patch.Apply(p)
			return f.projects[i], nil
		}
	}
	return service.Project{}, ErrNotFound
}

// DeleteProject implements service.Service.
func (f *FakeService) DeleteProject(ctx context.Context, projectID string) error {
	if f.DeleteProjectErr != nil {
		return f.DeleteProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.projects {
		if p.ID == projectID {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			delete(f.tasks, projectID)
			return nil
		}
	}
	return ErrNotFound
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[t.ProjectID]; !ok {
		return service.Task{}, ErrNotFound
	}
	f.nextID++
	created := service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      service.StatusTodo,
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo,
		DueDate:     t.DueDate,
	}
	if created.Priority == "" {
		created.Priority = service.PriorityMedium
	}
	f.tasks[t.ProjectID] = append(f.tasks[t.ProjectID], created)
	return created, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, projectID, taskID string, patch service.TaskPatch) (service.Task, error) {
	if f.UpdateTaskRelease != nil {
		<-f.UpdateTaskRelease
	}
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks, ok := f.tasks[projectID]
	if !ok {
		return service.Task{}, ErrNotFound
	}
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[projectID][i] = patch.Apply(t)
			return f.tasks[projectID][i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks, ok := f.tasks[projectID]
	if !ok {
		return ErrNotFound
	}
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[projectID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// StartExport implements service.Service.
func (f *FakeService) StartExport(ctx context.Context, projectID string) (service.ExportJob, error) {
	if f.StartExportErr != nil {
		return service.ExportJob{}, f.StartExportErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.startCalls++
	return service.ExportJob{
		ID:        fmt.Sprintf("export-%d", f.startCalls),
		ProjectID: projectID,
		Status:    service.ExportPending,
	}, nil
}

// ExportStatus implements service.Service. Each call consumes the next
// scripted state; the last state repeats.
func (f *FakeService) ExportStatus(ctx context.Context, exportID string) (service.ExportJob, error) {
	f.mu.Lock()
	f.statusInFlight++
	if f.statusInFlight > f.MaxStatusInFlight {
		f.MaxStatusInFlight = f.statusInFlight
	}
	call := f.StatusCalls
	f.StatusCalls++
	states := f.ExportStates
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.statusInFlight--
		f.mu.Unlock()
	}()

	if f.ExportStatusErr != nil {
		return service.ExportJob{}, f.ExportStatusErr
	}

	state := service.ExportPending
	if len(states) > 0 {
		if call >= len(states) {
			call = len(states) - 1
		}
		state = states[call]
	}
	return service.ExportJob{ID: exportID, Status: state}, nil
}

// DownloadExport implements service.Service.
func (f *FakeService) DownloadExport(ctx context.Context, exportID string) ([]byte, error) {
	f.mu.Lock()
	f.DownloadCalls++
	f.mu.Unlock()
	if f.DownloadErr != nil {
		return nil, f.DownloadErr
	}
	return f.DownloadData, nil
}
