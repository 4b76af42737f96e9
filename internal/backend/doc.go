// Package backend is a small reference implementation of the todo REST API
// that taskdeck talks to. It backs `taskdeck serve` and the end-to-end tests.
//
// Routes:
//
//	GET    /todos/      list, ordered by id
//	POST   /todos/      create; title must be non-blank, description required
//	GET    /todos/{id}  fetch one
//	PATCH  /todos/{id}  partial update of title, description, is_completed
//	DELETE /todos/{id}  returns {"ok": true}
//
// Unknown ids answer 404 {"detail": "Todo not found"}; invalid bodies answer
// 422. Storage is pluggable through Repository: MemoryRepository for tests and
// throwaway sessions, SQLiteRepository for a persistent file.
package backend
