package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
)

func setupController(t *testing.T) *controller.Controller {
	t.Helper()
	c := controller.New()
	require.NoError(t, c.AddLink("A", "B", 10))
	require.NoError(t, c.AddLink("B", "C", 10))
	require.NoError(t, c.AddLink("A", "C", 30))
	_, err := c.AddFlow("A", "C", 2, 1)
	require.NoError(t, err)
	return c
}

func setupHandler(t *testing.T, lock sync.Locker) *Handler {
	t.Helper()
	schema, err := NewSchema(setupController(t))
	require.NoError(t, err)
	return NewHandler(schema, lock, 0)
}

// execute runs a query and round-trips the data through JSON for plain map access
func execute(t *testing.T, h *Handler, query string) (map[string]any, []string) {
	t.Helper()
	result := h.Execute(Request{Query: query})
	var messages []string
	for _, e := range result.Errors {
		messages = append(messages, e.Message)
	}
	raw, err := json.Marshal(result.Data)
	require.NoError(t, err)
	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))
	return data, messages
}

func TestQuerySwitchesAndLinks(t *testing.T) {
	h := setupHandler(t, nil)

	data, errs := execute(t, h, `{ switches { id } links { src dst bandwidth weight } }`)
	require.Empty(t, errs)

	switches := data["switches"].([]any)
	assert.Len(t, switches, 3)
	assert.Equal(t, "A", switches[0].(map[string]any)["id"])

	links := data["links"].([]any)
	assert.Len(t, links, 3)
	first := links[0].(map[string]any)
	assert.Equal(t, 10.0, first["bandwidth"])
	assert.InDelta(t, 0.1, first["weight"], 1e-9)
}

func TestQueryFlowsWithEntries(t *testing.T) {
	h := setupHandler(t, nil)

	data, errs := execute(t, h, `{ flows { id path state entries { switch nextHop } } }`)
	require.Empty(t, errs)

	list := data["flows"].([]any)
	require.Len(t, list, 1)
	flow := list[0].(map[string]any)
	assert.Equal(t, "flow-A-C-0", flow["id"])
	assert.Equal(t, []any{"A", "C"}, flow["path"])
	assert.Equal(t, "active", flow["state"])

	entries := flow["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "C", entries[0].(map[string]any)["nextHop"])
}

func TestQueryFlowByID(t *testing.T) {
	h := setupHandler(t, nil)

	data, errs := execute(t, h, `{ flow(id: "flow-A-C-0") { src dst bandwidth } missing: flow(id: "nope") { id } }`)
	require.Empty(t, errs)

	flow := data["flow"].(map[string]any)
	assert.Equal(t, "A", flow["src"])
	assert.Equal(t, 2.0, flow["bandwidth"])
	assert.Nil(t, data["missing"])
}

func TestQueryLinkStats(t *testing.T) {
	h := setupHandler(t, nil)

	data, errs := execute(t, h, `{ linkStats { src dst utilization percent flows { id } } }`)
	require.Empty(t, errs)

	var loaded map[string]any
	for _, s := range data["linkStats"].([]any) {
		stat := s.(map[string]any)
		if stat["src"] == "A" && stat["dst"] == "C" {
			loaded = stat
		}
	}
	require.NotNil(t, loaded, "expected A-C stat")
	assert.Equal(t, 2.0, loaded["utilization"])
	assert.InDelta(t, 6.667, loaded["percent"], 0.01)
	assert.Len(t, loaded["flows"], 1)
}

func TestQueryPaths(t *testing.T) {
	h := setupHandler(t, nil)

	data, errs := execute(t, h, `{ shortestPath(src: "A", dst: "C") kShortestPaths(src: "A", dst: "C", k: 2) { nodes hops } }`)
	require.Empty(t, errs)

	assert.Equal(t, []any{"A", "C"}, data["shortestPath"])
	paths := data["kShortestPaths"].([]any)
	require.Len(t, paths, 2)
	assert.Equal(t, 1.0, paths[0].(map[string]any)["hops"])
	assert.Equal(t, 2.0, paths[1].(map[string]any)["hops"])

	_, errs = execute(t, h, `{ shortestPath(src: "A", dst: "Z") }`)
	assert.NotEmpty(t, errs)
}

func TestQueryFlowTableFilter(t *testing.T) {
	h := setupHandler(t, nil)

	data, errs := execute(t, h, `{ all: flowTable { switch } onB: flowTable(switch: "B") { switch } }`)
	require.Empty(t, errs)
	assert.Len(t, data["all"], 1)
	assert.Len(t, data["onB"], 0)
}

func TestQueryDepthLimit(t *testing.T) {
	h := setupHandler(t, nil)

	_, errs := execute(t, h, `{ linkStats { flows { entries { switch } } } }`)
	assert.Empty(t, errs)

	schema, err := NewSchema(setupController(t))
	require.NoError(t, err)
	shallow := NewHandler(schema, nil, 2)
	_, errs = execute(t, shallow, `{ linkStats { flows { entries { switch } } } }`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "exceeds maximum 2")
}

func TestQueryDepth(t *testing.T) {
	tests := []struct {
		query string
		depth int
	}{
		{`{ health }`, 0},
		{`{ switches { id } }`, 1},
		{`{ flows { entries { switch } } }`, 2},
		{`{ linkStats { ...F } } fragment F on LinkStat { flows { id } }`, 2},
		{`{ __schema { types { name } } }`, 0},
	}
	for _, tt := range tests {
		got, err := queryDepth(tt.query)
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.depth, got, tt.query)
	}

	_, err := queryDepth(`{ unterminated`)
	assert.Error(t, err)
}

type countingLock struct {
	sync.Mutex
	locks int
}

func (l *countingLock) Lock() {
	l.Mutex.Lock()
	l.locks++
}

func TestHandlerHoldsLock(t *testing.T) {
	lock := &countingLock{}
	h := setupHandler(t, lock)

	execute(t, h, `{ health }`)
	execute(t, h, `{ switches { id } }`)
	assert.Equal(t, 2, lock.locks)
}

func TestServeHTTP(t *testing.T) {
	h := setupHandler(t, nil)

	body, _ := json.Marshal(Request{Query: `{ health }`})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{"health": "ok"}, resp.Data)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
