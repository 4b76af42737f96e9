package todos

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

type recordedRequest struct {
	Method    string
	Path      string
	Body      string
	Agent     string
	RequestID string
	Type      string
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(body),
			Agent:     r.Header.Get("User-Agent"),
			RequestID: r.Header.Get(requestIDHeader),
			Type:      r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestClient_OperationsHitContractEndpoints(t *testing.T) {
	t.Parallel()

	server, requests := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/todos/":
			_ = json.NewEncoder(w).Encode([]Task{{ID: 1, Title: "Buy milk", Description: "d"}})
		case r.Method == http.MethodGet && r.URL.Path == "/todos/1":
			_ = json.NewEncoder(w).Encode(Task{ID: 1, Title: "Buy milk", Description: "d"})
		case r.Method == http.MethodPost && r.URL.Path == "/todos/":
			_ = json.NewEncoder(w).Encode(Task{ID: 7, Title: "Buy milk", Description: "Created via Web UI"})
		case r.Method == http.MethodPatch && r.URL.Path == "/todos/7":
			_ = json.NewEncoder(w).Encode(Task{ID: 7, Title: "Buy milk", IsCompleted: true})
		case r.Method == http.MethodDelete && r.URL.Path == "/todos/7":
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			http.NotFound(w, r)
		}
	})

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("ListTasks = %#v, want one Buy milk task", tasks)
	}

	got, err := c.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("GetTask id = %d, want 1", got.ID)
	}

	created, err := c.CreateTask(ctx, NewTask{Title: "Buy milk", Description: "Created via Web UI"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	want := Task{ID: 7, Title: "Buy milk", Description: "Created via Web UI"}
	if created != want {
		t.Fatalf("CreateTask = %#v, want %#v", created, want)
	}

	if err := c.UpdateTaskCompletion(ctx, 7, true); err != nil {
		t.Fatalf("UpdateTaskCompletion returned error: %v", err)
	}
	if err := c.DeleteTask(ctx, 7); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}

	reqs := requests()
	if len(reqs) != 5 {
		t.Fatalf("server saw %d requests, want 5", len(reqs))
	}
	post := reqs[2]
	if post.Type != "application/json" {
		t.Fatalf("POST Content-Type = %q, want application/json", post.Type)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(post.Body), &body); err != nil {
		t.Fatalf("POST body %q: %v", post.Body, err)
	}
	if body["title"] != "Buy milk" || body["description"] != "Created via Web UI" || body["is_completed"] != false {
		t.Fatalf("POST body = %v, want title/description/is_completed", body)
	}
	if patch := reqs[3]; strings.TrimSpace(patch.Body) != `{"is_completed":true}` {
		t.Fatalf("PATCH body = %q, want {\"is_completed\":true}", patch.Body)
	}

	ids := map[string]bool{}
	for _, r := range reqs {
		if !strings.HasPrefix(r.Agent, "taskdeck/") {
			t.Fatalf("User-Agent = %q, want taskdeck/*", r.Agent)
		}
		if r.RequestID == "" || ids[r.RequestID] {
			t.Fatalf("request id %q missing or reused", r.RequestID)
		}
		ids[r.RequestID] = true
	}
}

func TestClient_NonSuccessStatusIsTransportError(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"nope"}`, status)
		}))
		c, err := NewClient(server.URL)
		if err != nil {
			t.Fatalf("NewClient returned error: %v", err)
		}

		err = c.DeleteTask(context.Background(), 3)
		server.Close()

		var te *TransportError
		if !errors.As(err, &te) {
			t.Fatalf("status %d: error = %v, want *TransportError", status, err)
		}
		if te.StatusCode != status {
			t.Fatalf("StatusCode = %d, want %d", te.StatusCode, status)
		}
		if !errors.Is(err, ErrTransport) {
			t.Fatalf("errors.Is(err, ErrTransport) = false for status %d", status)
		}
		if !strings.Contains(err.Error(), "returned status") {
			t.Fatalf("error = %q, want it to mention returned status", err.Error())
		}
	}
}

func TestClient_NetworkFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient(url, WithTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListTasks(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("ListTasks error = %v, want *TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0 for network failure", te.StatusCode)
	}
}

func TestClient_MalformedPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"not json", `{not-json`},
		{"wrong shape", `{"id":1}`},
		{"zero id", `[{"id":0,"title":"x","description":"","is_completed":false}]`},
		{"blank title", `[{"id":1,"title":"  ","description":"","is_completed":false}]`},
		{"duplicate ids", `[{"id":1,"title":"a","description":"","is_completed":false},{"id":1,"title":"b","description":"","is_completed":true}]`},
		{"missing is_completed", `[{"id":1,"title":"a","description":""}]`},
		{"missing description", `[{"id":1,"title":"a","is_completed":false}]`},
		{"null description", `[{"id":1,"title":"a","description":null,"is_completed":false}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			tasks, err := c.ListTasks(context.Background())
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("ListTasks error = %v, want ErrMalformedResponse", err)
			}
			if errors.Is(err, ErrTransport) {
				t.Fatalf("malformed payload should not match ErrTransport")
			}
			if tasks != nil {
				t.Fatalf("ListTasks tasks = %#v, want nil", tasks)
			}
		})
	}
}

func TestClient_CreateRejectsRecordWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Buy milk","description":"","is_completed":false}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.CreateTask(context.Background(), NewTask{Title: "Buy milk"}); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("CreateTask error = %v, want ErrMalformedResponse", err)
	}
}

func TestClient_GetAndCreateRejectIncompleteRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":4,"title":"Buy milk"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.GetTask(context.Background(), 4)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("GetTask error = %v, want ErrMalformedResponse", err)
	}
	if !strings.Contains(err.Error(), "description, is_completed") {
		t.Fatalf("GetTask error = %q, want it to name the missing fields", err.Error())
	}
	if _, err := c.CreateTask(context.Background(), NewTask{Title: "Buy milk"}); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("CreateTask error = %v, want ErrMalformedResponse", err)
	}
}

func TestClient_EmptyListDecodesToEmptySlice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("ListTasks = %#v, want empty non-nil slice", tasks)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if err := c.DeleteTask(context.Background(), 1); err == nil {
		t.Fatalf("DeleteTask on nil client returned nil error")
	}
}
