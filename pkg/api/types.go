package api

import (
	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// SwitchResponse reports the outcome of adding a switch
type SwitchResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
	Ports   []int  `json:"ports,omitempty"`
}

// SwitchListResponse lists switch identifiers in registration order
type SwitchListResponse struct {
	Switches []string `json:"switches"`
	Count    int      `json:"count"`
}

// LinkStatResponse is a ledger entry with its utilization percentage
type LinkStatResponse struct {
	ledger.LinkStat
	Percent float64 `json:"percent"`
}

// LinkStatsResponse lists link utilization
type LinkStatsResponse struct {
	Links []LinkStatResponse `json:"links"`
	Count int                `json:"count"`
}

// PathResponse is a single shortest path
type PathResponse struct {
	Src  string   `json:"src"`
	Dst  string   `json:"dst"`
	Path []string `json:"path"`
	Hops int      `json:"hops"`
}

// PathsResponse is a k-shortest result
type PathsResponse struct {
	Src   string         `json:"src"`
	Dst   string         `json:"dst"`
	Paths []routing.Path `json:"paths"`
}

// FlowResponse reports an admitted or withdrawn flow
type FlowResponse struct {
	ID   string     `json:"id"`
	Flow flows.Flow `json:"flow"`
}

// FlowListResponse lists flows
type FlowListResponse struct {
	Flows []flows.Flow `json:"flows"`
	Count int          `json:"count"`
}

// FlowTableResponse lists flow table entries with their printable form
type FlowTableResponse struct {
	Entries     []flows.Entry `json:"entries"`
	Descriptors []string      `json:"descriptors"`
	Count       int           `json:"count"`
}

// ClearFlowTableResponse reports how many entries were dropped
type ClearFlowTableResponse struct {
	Switch  string `json:"switch"`
	Removed int    `json:"removed"`
}

// AuditResponse lists audit events, newest first
type AuditResponse struct {
	Events []*audit.Event `json:"events"`
	Count  int            `json:"count"`
	Total  int64          `json:"total"`
}

// ScenarioResponse reports an applied scenario
type ScenarioResponse struct {
	Name             string                  `json:"name,omitempty"`
	FlowIDs          []string                `json:"flow_ids"`
	Reconfigurations []flows.Reconfiguration `json:"reconfigurations"`
}

func linkStatResponses(stats []ledger.LinkStat) []LinkStatResponse {
	result := make([]LinkStatResponse, len(stats))
	for i, s := range stats {
		result[i] = LinkStatResponse{LinkStat: s, Percent: s.Percent()}
	}
	return result
}
