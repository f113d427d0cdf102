package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

// newClient points a rest client at a test server.
func newClient(t *testing.T, handler http.Handler) (*rest.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{BaseURL: srv.URL}
	return rest.New(cfg, "test-token"), srv
}

func ok(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"success":true,"data":` + data + `}`))
}

func TestListProjects(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/projects" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		ok(w, `[
			{"id":"proj-1","name":"Alpha","ownerId":"user-1","taskCount":3},
			{"id":"proj-2","name":"Beta","ownerId":"user-1","taskCount":0}
		]`)
	}))

	items, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(items))
	}
	if items[0].ID != "proj-1" || items[0].TaskCount != 3 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Name != "Beta" || items[1].TaskCount != 0 {
		t.Errorf("unexpected second item: %+v", items[1])
	}
}

func TestGetProject_EmbedsTasks(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/proj-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		ok(w, `{
			"id":"proj-1","name":"Alpha","ownerId":"user-1",
			"tasks":[
				{"id":"task-1","projectId":"proj-1","title":"Write docs","status":"TODO","priority":"HIGH"},
				{"id":"task-2","projectId":"proj-1","title":"Ship it","status":"DONE","priority":"LOW",
				 "assignee":{"id":"user-2","name":"Sam"}}
			]
		}`)
	}))

	detail, err := c.GetProject(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(detail.Tasks))
	}
	if detail.Tasks[0].Priority != service.PriorityHigh {
		t.Errorf("priority = %s", detail.Tasks[0].Priority)
	}
	if detail.Tasks[1].Assignee == nil || detail.Tasks[1].Assignee.Name != "Sam" {
		t.Errorf("assignee not decoded: %+v", detail.Tasks[1].Assignee)
	}
}

func TestUpdateTask_PatchOmitsUnsetFields(t *testing.T) {
	var gotBody map[string]any
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/tasks/task-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &gotBody)
		ok(w, `{"id":"task-1","projectId":"proj-1","title":"Write docs","status":"DONE","priority":"MEDIUM"}`)
	}))

	done := service.StatusDone
	patch := service.TaskPatch{Status: &done}
	updated, err := c.UpdateTask(context.Background(), "proj-1", "task-1", patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != service.StatusDone {
		t.Errorf("status = %s", updated.Status)
	}

	if _, ok := gotBody["status"]; !ok {
		t.Error("patch body missing status")
	}
	for _, field := range []string{"title", "description", "priority", "assignedTo", "dueDate"} {
		if _, present := gotBody[field]; present {
			t.Errorf("patch body leaked unset field %q", field)
		}
	}
}

func TestDeleteTask_AddressesByTaskID(t *testing.T) {
	var gotPath string
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		ok(w, `null`)
	}))

	if err := c.DeleteTask(context.Background(), "proj-1", "task-9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotPath != "DELETE /tasks/task-9" {
		t.Errorf("request = %q", gotPath)
	}
}

func TestStartExport_MapsAckShape(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects/proj-1/export" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		ok(w, `{"exportId":"exp-42","status":"PENDING","message":"export queued"}`)
	}))

	job, err := c.StartExport(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if job.ID != "exp-42" {
		t.Errorf("id = %q, want exportId mapped", job.ID)
	}
	if job.ProjectID != "proj-1" {
		t.Errorf("projectID = %q", job.ProjectID)
	}
	if job.Status != service.ExportPending {
		t.Errorf("status = %s", job.Status)
	}
}

func TestDownloadExport_RawBytes(t *testing.T) {
	csv := "id,title\ntask-1,Write docs\n"
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exports/exp-42/download" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, csv)
	}))

	data, err := c.DownloadExport(context.Background(), "exp-42")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != csv {
		t.Errorf("payload = %q", data)
	}
}

func TestLogin_ReturnsSession(t *testing.T) {
	var gotBody map[string]string
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		ok(w, `{"user":{"id":"user-1","name":"Ada","email":"ada@example.com"},"token":"tok-abc"}`)
	}))

	res, err := c.Login(context.Background(), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "tok-abc" || res.User.Email != "ada@example.com" {
		t.Errorf("unexpected result: %+v", res)
	}
	if gotBody["email"] != "ada@example.com" || gotBody["password"] != "hunter2" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestRegister_SendsName(t *testing.T) {
	var gotBody map[string]string
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		ok(w, `{"user":{"id":"user-1","name":"Ada","email":"ada@example.com"},"token":"tok-new"}`)
	}))

	res, err := c.Register(context.Background(), "Ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token != "tok-new" {
		t.Errorf("token = %q", res.Token)
	}
	if gotBody["name"] != "Ada" {
		t.Errorf("body = %v", gotBody)
	}
}
