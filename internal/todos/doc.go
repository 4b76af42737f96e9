// Package todos provides an HTTP client for the todo REST API.
//
// # Overview
//
// The client maps each remote operation onto exactly one HTTP call and turns
// the outcome into either a value or an error. It performs no retries and no
// input validation; callers such as the sync engine decide what is worth
// sending.
//
// # Client Usage
//
//	client, err := todos.NewClient("http://localhost:8000")
//	if err != nil {
//		return err
//	}
//
//	tasks, err := client.ListTasks(ctx)
//	created, err := client.CreateTask(ctx, todos.NewTask{Title: "Buy milk"})
//	err = client.UpdateTaskCompletion(ctx, created.ID, true)
//	err = client.DeleteTask(ctx, created.ID)
//
// # API Endpoints
//
//   - GET /todos/: every task, in backend order
//   - GET /todos/{id}: one task
//   - POST /todos/: create; the response carries the assigned id
//   - PATCH /todos/{id}: body {"is_completed": bool}
//   - DELETE /todos/{id}
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: taskdeck/0.1
//   - Carry a fresh X-Request-ID, logged alongside the outcome
//   - Have a 5-second timeout unless WithTimeout or WithHTTPClient says otherwise
//
// # Error Handling
//
// Two error kinds leave this package:
//
//   - *TransportError: the request could not be completed, or the backend
//     answered with any non-2xx status. 4xx and 5xx are not distinguished.
//     Matches errors.Is(err, ErrTransport).
//   - *MalformedResponseError: the body did not decode, or a decoded record
//     lacks one of id, title, description or is_completed, has a
//     non-positive id or a blank title, or repeats an id within a list.
//     Matches errors.Is(err, ErrMalformedResponse).
//
// Malformed payloads never reach the caller as records.
package todos
