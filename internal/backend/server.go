package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/five82/taskdeck/internal/todos"
)

const requestIDHeader = "X-Request-ID"

type server struct {
	repo   Repository
	logger *slog.Logger
}

// NewRouter exposes repo over the todo REST contract.
func NewRouter(repo Repository, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &server{repo: repo, logger: logger}

	r := mux.NewRouter()
	r.Use(s.logRequests, allowCORS)

	for _, path := range []string{"/todos/", "/todos"} {
		r.Methods(http.MethodGet).Path(path).HandlerFunc(s.listTodos)
		r.Methods(http.MethodPost).Path(path).HandlerFunc(s.createTodo)
	}
	r.Methods(http.MethodGet).Path("/todos/{id:[0-9]+}").HandlerFunc(s.getTodo)
	r.Methods(http.MethodPatch).Path("/todos/{id:[0-9]+}").HandlerFunc(s.updateTodo)
	r.Methods(http.MethodDelete).Path("/todos/{id:[0-9]+}").HandlerFunc(s.deleteTodo)
	r.Methods(http.MethodOptions).PathPrefix("/todos").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// ListenAndServe runs handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(requestIDHeader); id != "" {
			w.Header().Set(requestIDHeader, id)
		}
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"status", m.Code,
			"duration", m.Duration,
			"request_id", r.Header.Get(requestIDHeader))
	})
}

func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		next.ServeHTTP(w, r)
	})
}

func (s *server) listTodos(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.List(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *server) getTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	task, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.repoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *server) createTodo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		IsCompleted bool    `json:"is_completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if body.Title == nil || strings.TrimSpace(*body.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title must not be empty")
		return
	}
	if body.Description == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "description is required")
		return
	}

	task, err := s.repo.Create(r.Context(), todos.NewTask{
		Title:       *body.Title,
		Description: *body.Description,
		IsCompleted: body.IsCompleted,
	})
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title must not be empty")
		return
	}
	task, err := s.repo.Update(r.Context(), id, patch)
	if err != nil {
		s.repoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.repoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *server) repoError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Todo not found")
		return
	}
	s.internalError(w, err)
}

func (s *server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("repository failure", "error", err)
	writeDetail(w, http.StatusInternalServerError, "internal error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}
	return id, true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
