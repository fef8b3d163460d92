// Package router dispatches a (method, path) pair to a registered handler.
// A Table is built once and is safe for concurrent lookups afterwards.
package router

import (
	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/protocol/response"
)

var notFoundBody = []byte(`{ "error": "not_found" }`)

type routeKey struct {
	method string
	path   string
}

// Table is an immutable exact-match route table.
type Table struct {
	routes     map[routeKey]model.HandlerFunc
	order      []model.Route
	duplicates []model.Route
}

// New builds a table from routes. The first registration of a (method, path)
// pair wins; later ones are reported by Duplicates.
func New(routes ...model.Route) *Table {

	t := &Table{routes: make(map[routeKey]model.HandlerFunc, len(routes))}

	for _, r := range routes {
		key := routeKey{method: r.Method, path: r.Path}
		if _, ok := t.routes[key]; ok || r.Handler == nil {
			t.duplicates = append(t.duplicates, r)
			continue
		}
		t.routes[key] = r.Handler
		t.order = append(t.order, r)
	}

	return t
}

// Route returns the response registered for (method, path).
func (t *Table) Route(method, path string) model.Response {

	return t.Dispatch(model.Request{Method: method, Path: path})
}

// Dispatch returns the response for req. Matching is exact and
// case-sensitive; anything unregistered gets the canonical not-found response.
func (t *Table) Dispatch(req model.Request) model.Response {

	if h, ok := t.routes[routeKey{method: req.Method, path: req.Path}]; ok {
		return h(req)
	}

	return NotFound()
}

// Routes lists the accepted registrations in registration order.
func (t *Table) Routes() []model.Route {

	return append([]model.Route(nil), t.order...)
}

// Duplicates lists registrations that were dropped because the pair was
// already taken or the handler was nil.
func (t *Table) Duplicates() []model.Route {

	return append([]model.Route(nil), t.duplicates...)
}

// NotFound is the response for any unregistered (method, path).
func NotFound() model.Response {

	return response.JSON(response.StatusNotFound, notFoundBody)
}
