package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/cache"
)

// Cache TTLs. The list goes stale faster than it is evicted so repeated
// reads stay instant while a refresh runs behind them.
const (
	projectsStale = 15 * time.Second
	projectsEvict = 5 * time.Minute
	projectStale  = 10 * time.Second
	projectEvict  = 5 * time.Minute
)

// keyProjects addresses the project dashboard list.
const keyProjects = "projects"

// keyProject addresses one project's detail (tasks embedded).
func keyProject(id string) string { return "project:" + id }

// Cached decorates a Service with read-through caching and optimistic
// mutations. Reads for the project list and project detail are served from
// cache within their TTLs; mutations patch the cache immediately, roll the
// patch back if the server call fails, and settle the affected keys either
// way so the next read reconciles with the server.
type Cached struct {
	backend Service
	cache   *cache.Cache
}

// NewCached wraps backend with the given cache instance.
func NewCached(backend Service, c *cache.Cache) *Cached {
	return &Cached{backend: backend, cache: c}
}

var _ Service = (*Cached)(nil)

// ListProjects serves the dashboard list from cache.
func (c *Cached) ListProjects(ctx context.Context) ([]ProjectListItem, error) {
	return cache.Read(ctx, c.cache, keyProjects, c.backend.ListProjects, projectsStale, projectsEvict)
}

// GetProject serves a project detail from cache.
func (c *Cached) GetProject(ctx context.Context, projectID string) (ProjectDetail, error) {
	load := func(ctx context.Context) (ProjectDetail, error) {
		return c.backend.GetProject(ctx, projectID)
	}
	return cache.Read(ctx, c.cache, keyProject(projectID), load, projectStale, projectEvict)
}

// CreateProject creates a project and settles the dashboard list. The server
// assigns the ID, so there is no optimistic insert; the next list read picks
// the new project up.
func (c *Cached) CreateProject(ctx context.Context, p NewProject) (Project, error) {
	created, err := c.backend.CreateProject(ctx, p)
	c.cache.Settle(keyProjects)
	return created, err
}

// UpdateProject patches the cached detail and list entries immediately and
// rolls both back if the server rejects the update.
func (c *Cached) UpdateProject(ctx context.Context, projectID string, patch ProjectPatch) (Project, error) {
	detailTok, detailOK := c.cache.OptimisticWrite(keyProject(projectID), func(v any) any {
		d, ok := v.(ProjectDetail)
		if !ok {
			return v
		}
		d.Project = patch.Apply(d.Project)
		return d
	})
	listTok, listOK := c.cache.OptimisticWrite(keyProjects, func(v any) any {
		items, ok := v.([]ProjectListItem)
		if !ok {
			return v
		}
		out := make([]ProjectListItem, len(items))
		copy(out, items)
		for i := range out {
			if out[i].ID == projectID {
				out[i].Project = patch.Apply(out[i].Project)
			}
		}
		return out
	})

	updated, err := c.backend.UpdateProject(ctx, projectID, patch)
	if err != nil {
		if detailOK {
			c.cache.Rollback(detailTok)
		}
		if listOK {
			c.cache.Rollback(listTok)
		}
	}
	c.cache.Settle(keyProject(projectID))
	c.cache.Settle(keyProjects)
	return updated, err
}

// DeleteProject removes the project from the cached list immediately and
// restores it if the server call fails.
func (c *Cached) DeleteProject(ctx context.Context, projectID string) error {
	listTok, listOK := c.cache.OptimisticWrite(keyProjects, func(v any) any {
		items, ok := v.([]ProjectListItem)
		if !ok {
			return v
		}
		out := make([]ProjectListItem, 0, len(items))
		for _, it := range items {
			if it.ID != projectID {
				out = append(out, it)
			}
		}
		return out
	})

	err := c.backend.DeleteProject(ctx, projectID)
	if err != nil && listOK {
		c.cache.Rollback(listTok)
	}
	c.cache.Settle(keyProjects)
	c.cache.Settle(keyProject(projectID))
	return err
}

// CreateTask appends a placeholder task to the cached project detail so it
// shows up before the server responds. The placeholder carries a client-side
// ID; the settle that follows swaps in the server's task on the next read.
func (c *Cached) CreateTask(ctx context.Context, t NewTask) (Task, error) {
	key := keyProject(t.ProjectID)
	placeholder := Task{
		ID:          "local-" + uuid.NewString(),
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      StatusTodo,
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo,
		DueDate:     t.DueDate,
	}
	if placeholder.Priority == "" {
		placeholder.Priority = PriorityMedium
	}

	tok, ok := c.cache.OptimisticWrite(key, func(v any) any {
		d, dok := v.(ProjectDetail)
		if !dok {
			return v
		}
		tasks := make([]Task, len(d.Tasks), len(d.Tasks)+1)
		copy(tasks, d.Tasks)
		d.Tasks = append(tasks, placeholder)
		return d
	})

	created, err := c.backend.CreateTask(ctx, t)
	if err != nil && ok {
		c.cache.Rollback(tok)
	}
	c.cache.Settle(key)
	c.cache.Settle(keyProjects) // taskCount changed
	return created, err
}

// UpdateTask patches the cached task immediately and rolls back on failure.
func (c *Cached) UpdateTask(ctx context.Context, projectID, taskID string, patch TaskPatch) (Task, error) {
	key := keyProject(projectID)
	tok, ok := c.cache.OptimisticWrite(key, func(v any) any {
		d, dok := v.(ProjectDetail)
		if !dok {
			return v
		}
		tasks := make([]Task, len(d.Tasks))
		copy(tasks, d.Tasks)
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i] = patch.Apply(tasks[i])
			}
		}
		d.Tasks = tasks
		return d
	})

	updated, err := c.backend.UpdateTask(ctx, projectID, taskID, patch)
	if err != nil && ok {
		c.cache.Rollback(tok)
	}
	c.cache.Settle(key)
	return updated, err
}

// DeleteTask removes the cached task immediately and restores it on failure.
func (c *Cached) DeleteTask(ctx context.Context, projectID, taskID string) error {
	key := keyProject(projectID)
	tok, ok := c.cache.OptimisticWrite(key, func(v any) any {
		d, dok := v.(ProjectDetail)
		if !dok {
			return v
		}
		tasks := make([]Task, 0, len(d.Tasks))
		for _, t := range d.Tasks {
			if t.ID != taskID {
				tasks = append(tasks, t)
			}
		}
		d.Tasks = tasks
		return d
	})

	err := c.backend.DeleteTask(ctx, projectID, taskID)
	if err != nil && ok {
		c.cache.Rollback(tok)
	}
	c.cache.Settle(key)
	c.cache.Settle(keyProjects)
	return err
}

// StartExport passes through; export jobs are never cached.
func (c *Cached) StartExport(ctx context.Context, projectID string) (ExportJob, error) {
	return c.backend.StartExport(ctx, projectID)
}

// ExportStatus passes through so polling always sees fresh state.
func (c *Cached) ExportStatus(ctx context.Context, exportID string) (ExportJob, error) {
	return c.backend.ExportStatus(ctx, exportID)
}

// DownloadExport passes through.
func (c *Cached) DownloadExport(ctx context.Context, exportID string) ([]byte, error) {
	return c.backend.DownloadExport(ctx, exportID)
}
