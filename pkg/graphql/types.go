package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// ControlPlane is the read side of the controller exposed over GraphQL
type ControlPlane interface {
	VisualizeTopology() topology.Snapshot
	ShowLinkStats() []ledger.LinkStat
	Flows() []flows.Flow
	Flow(id string) (flows.Flow, bool)
	FlowTable() []flows.Entry
	ComputeShortestPath(src, dst string) ([]string, error)
	KShortestPaths(src, dst string, k int) ([]routing.Path, error)
}

var switchType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Switch",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"ports": &graphql.Field{Type: graphql.NewList(graphql.Int)},
	},
})

var linkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Link",
	Fields: graphql.Fields{
		"src":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"dst":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"bandwidth": &graphql.Field{Type: graphql.Float},
		"weight":    &graphql.Field{Type: graphql.Float},
	},
})

var pathType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Path",
	Fields: graphql.Fields{
		"nodes":  &graphql.Field{Type: graphql.NewList(graphql.String)},
		"weight": &graphql.Field{Type: graphql.Float},
		"hops": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(routing.Path).Hops(), nil
			},
		},
	},
})

var flowEntryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FlowEntry",
	Fields: graphql.Fields{
		"flowId": &graphql.Field{Type: graphql.String, Resolve: entryField(func(e flows.Entry) any { return e.FlowID })},
		"switch": &graphql.Field{Type: graphql.String, Resolve: entryField(func(e flows.Entry) any { return e.Switch })},
		"src":    &graphql.Field{Type: graphql.String, Resolve: entryField(func(e flows.Entry) any { return e.Match.Src })},
		"dst":    &graphql.Field{Type: graphql.String, Resolve: entryField(func(e flows.Entry) any { return e.Match.Dst })},
		"nextHop": &graphql.Field{Type: graphql.String, Resolve: entryField(func(e flows.Entry) any {
			return e.Action.Forward
		})},
		"priority":    &graphql.Field{Type: graphql.Float, Resolve: entryField(func(e flows.Entry) any { return e.Priority })},
		"description": &graphql.Field{Type: graphql.String, Resolve: entryField(func(e flows.Entry) any { return e.String() })},
	},
})

func entryField(get func(flows.Entry) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		return get(p.Source.(flows.Entry)), nil
	}
}

// newFlowType builds the Flow object. Its entries field needs the control
// plane to look up the flow table.
func newFlowType(cp ControlPlane) *graphql.Object {
	field := func(get func(flows.Flow) any) graphql.FieldResolveFn {
		return func(p graphql.ResolveParams) (any, error) {
			return get(p.Source.(flows.Flow)), nil
		}
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Flow",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: field(func(f flows.Flow) any { return f.ID })},
			"src":       &graphql.Field{Type: graphql.String, Resolve: field(func(f flows.Flow) any { return f.Src })},
			"dst":       &graphql.Field{Type: graphql.String, Resolve: field(func(f flows.Flow) any { return f.Dst })},
			"path":      &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: field(func(f flows.Flow) any { return f.Path })},
			"bandwidth": &graphql.Field{Type: graphql.Float, Resolve: field(func(f flows.Flow) any { return f.Bandwidth })},
			"priority":  &graphql.Field{Type: graphql.Float, Resolve: field(func(f flows.Flow) any { return f.Priority })},
			"state":     &graphql.Field{Type: graphql.String, Resolve: field(func(f flows.Flow) any { return f.State.String() })},
			"reroutes":  &graphql.Field{Type: graphql.Int, Resolve: field(func(f flows.Flow) any { return f.Reroutes })},
			"entries": &graphql.Field{
				Type:        graphql.NewList(flowEntryType),
				Description: "Flow table entries installed for this flow, stale ones included",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id := p.Source.(flows.Flow).ID
					var result []flows.Entry
					for _, e := range cp.FlowTable() {
						if e.FlowID == id {
							result = append(result, e)
						}
					}
					return result, nil
				},
			},
		},
	})
}

// newLinkStatType builds the LinkStat object with its member flows.
func newLinkStatType(flowType *graphql.Object, cp ControlPlane) *graphql.Object {
	field := func(get func(ledger.LinkStat) any) graphql.FieldResolveFn {
		return func(p graphql.ResolveParams) (any, error) {
			return get(p.Source.(ledger.LinkStat)), nil
		}
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "LinkStat",
		Fields: graphql.Fields{
			"src":         &graphql.Field{Type: graphql.String, Resolve: field(func(s ledger.LinkStat) any { return s.Src })},
			"dst":         &graphql.Field{Type: graphql.String, Resolve: field(func(s ledger.LinkStat) any { return s.Dst })},
			"capacity":    &graphql.Field{Type: graphql.Float, Resolve: field(func(s ledger.LinkStat) any { return s.Capacity })},
			"utilization": &graphql.Field{Type: graphql.Float, Resolve: field(func(s ledger.LinkStat) any { return s.Utilization })},
			"ratio":       &graphql.Field{Type: graphql.Float, Resolve: field(func(s ledger.LinkStat) any { return s.Ratio })},
			"percent":     &graphql.Field{Type: graphql.Float, Resolve: field(func(s ledger.LinkStat) any { return s.Percent() })},
			"flowIds":     &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: field(func(s ledger.LinkStat) any { return s.FlowIDs })},
			"flows": &graphql.Field{
				Type: graphql.NewList(flowType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					stat := p.Source.(ledger.LinkStat)
					result := make([]flows.Flow, 0, len(stat.FlowIDs))
					for _, id := range stat.FlowIDs {
						if f, ok := cp.Flow(id); ok {
							result = append(result, f)
						}
					}
					return result, nil
				},
			},
		},
	})
}
