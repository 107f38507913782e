package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-sdn/pkg/flows"
)

// NewSchema builds the read-only query schema over a control plane
func NewSchema(cp ControlPlane) (graphql.Schema, error) {
	flowType := newFlowType(cp)
	linkStatType := newLinkStatType(flowType, cp)

	srcDst := graphql.FieldConfigArgument{
		"src": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"dst": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"switches": &graphql.Field{
				Type: graphql.NewList(switchType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return cp.VisualizeTopology().Switches, nil
				},
			},
			"links": &graphql.Field{
				Type: graphql.NewList(linkType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return cp.VisualizeTopology().Links, nil
				},
			},
			"linkStats": &graphql.Field{
				Type: graphql.NewList(linkStatType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return cp.ShowLinkStats(), nil
				},
			},
			"flows": &graphql.Field{
				Type: graphql.NewList(flowType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return cp.Flows(), nil
				},
			},
			"flow": &graphql.Field{
				Type: flowType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					f, ok := cp.Flow(p.Args["id"].(string))
					if !ok {
						return nil, nil
					}
					return f, nil
				},
			},
			"flowTable": &graphql.Field{
				Type: graphql.NewList(flowEntryType),
				Args: graphql.FieldConfigArgument{
					"switch": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					entries := cp.FlowTable()
					sw, ok := p.Args["switch"].(string)
					if !ok {
						return entries, nil
					}
					filtered := make([]flows.Entry, 0, len(entries))
					for _, e := range entries {
						if e.Switch == sw {
							filtered = append(filtered, e)
						}
					}
					return filtered, nil
				},
			},
			"shortestPath": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Args: srcDst,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return cp.ComputeShortestPath(p.Args["src"].(string), p.Args["dst"].(string))
				},
			},
			"kShortestPaths": &graphql.Field{
				Type: graphql.NewList(pathType),
				Args: graphql.FieldConfigArgument{
					"src": srcDst["src"],
					"dst": srcDst["dst"],
					"k":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 3},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					k, _ := p.Args["k"].(int)
					if k < 1 {
						return nil, fmt.Errorf("k must be at least 1, got %d", k)
					}
					return cp.KShortestPaths(p.Args["src"].(string), p.Args["dst"].(string), k)
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}
