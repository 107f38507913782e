package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/graphql-go/graphql"
)

// Request represents a GraphQL HTTP request
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response represents a GraphQL HTTP response
type Response struct {
	Data   any     `json:"data,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Error represents a GraphQL error
type Error struct {
	Message string `json:"message"`
}

// Handler serves GraphQL queries. Resolvers read controller state, so every
// query runs while holding lock.
type Handler struct {
	schema   graphql.Schema
	lock     sync.Locker
	maxDepth int
}

// NewHandler creates a handler. A nil lock runs queries unguarded and a
// non-positive maxDepth selects DefaultMaxDepth.
func NewHandler(schema graphql.Schema, lock sync.Locker, maxDepth int) *Handler {
	if lock == nil {
		lock = noLock{}
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Handler{schema: schema, lock: lock, maxDepth: maxDepth}
}

// Execute runs a query after checking its depth
func (h *Handler) Execute(req Request) *graphql.Result {
	depth, err := queryDepth(req.Query)
	if err == nil && depth > h.maxDepth {
		err = fmt.Errorf("query depth %d exceeds maximum %d", depth, h.maxDepth)
	}
	if err != nil {
		return &graphql.Result{Errors: graphqlErrors(err)}
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	return graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
	})
}

// ServeHTTP handles POST requests with a JSON body
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(Response{Errors: []Error{{Message: "method not allowed"}}})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(Response{Errors: []Error{{Message: "invalid request body"}}})
		return
	}

	result := h.Execute(req)
	response := Response{Data: result.Data}
	for _, err := range result.Errors {
		response.Errors = append(response.Errors, Error{Message: err.Message})
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}
