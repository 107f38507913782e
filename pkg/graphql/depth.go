package graphql

import (
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// DefaultMaxDepth bounds object nesting in a query. linkStats > flows >
// entries is the deepest meaningful chain.
const DefaultMaxDepth = 4

// queryDepth parses a query and returns its deepest object nesting
func queryDepth(query string) (int, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return 0, err
	}

	fragments := make(map[string]*ast.FragmentDefinition)
	for _, def := range doc.Definitions {
		if frag, ok := def.(*ast.FragmentDefinition); ok {
			fragments[frag.Name.Value] = frag
		}
	}

	maxDepth := 0
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			if d := selectionDepth(op.SelectionSet, 0, fragments, map[string]bool{}); d > maxDepth {
				maxDepth = d
			}
		}
	}
	return maxDepth, nil
}

// selectionDepth counts nested selection sets, expanding fragments once
func selectionDepth(set *ast.SelectionSet, depth int, fragments map[string]*ast.FragmentDefinition, seen map[string]bool) int {
	if set == nil || len(set.Selections) == 0 {
		return depth
	}

	maxDepth := depth
	for _, selection := range set.Selections {
		var d int
		switch sel := selection.(type) {
		case *ast.Field:
			if strings.HasPrefix(sel.Name.Value, "__") || sel.SelectionSet == nil {
				continue
			}
			d = selectionDepth(sel.SelectionSet, depth+1, fragments, seen)
		case *ast.InlineFragment:
			d = selectionDepth(sel.SelectionSet, depth, fragments, seen)
		case *ast.FragmentSpread:
			name := sel.Name.Value
			frag, ok := fragments[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			d = selectionDepth(frag.SelectionSet, depth, fragments, seen)
			delete(seen, name)
		}
		if d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}
