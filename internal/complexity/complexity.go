// Package complexity scores function-node bodies with a McCabe-like count:
// one plus the number of branching constructs and short-circuit operators
// found in the JavaScript syntax tree.
package complexity

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

var branchNodes = map[string]bool{
	"if_statement":       true,
	"for_statement":      true,
	"for_in_statement":   true,
	"while_statement":    true,
	"do_statement":       true,
	"catch_clause":       true,
	"switch_case":        true,
	"ternary_expression": true,
}

var logicalOperators = map[string]bool{
	"&&": true,
	"||": true,
	"??": true,
}

// Metrics is the score of one body.
type Metrics struct {
	LOC        int
	Complexity int
}

// Analyzer parses bodies with tree-sitter. It is not safe for concurrent use.
type Analyzer struct {
	parser *sitter.Parser
}

// NewAnalyzer creates an Analyzer with the JavaScript grammar loaded.
func NewAnalyzer() *Analyzer {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Analyzer{parser: p}
}

// Analyze scores body. The body is parsed inside a function so that a
// top-level return is valid syntax.
func (a *Analyzer) Analyze(ctx context.Context, body string) (Metrics, error) {
	src := []byte("function __flowscript(msg) {\n" + body + "\n}\n")
	tree, err := a.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return Metrics{}, fmt.Errorf("complexity: parse: %w", err)
	}
	defer tree.Close()

	return Metrics{
		LOC:        LOC(body),
		Complexity: 1 + countBranches(tree.RootNode()),
	}, nil
}

// Close releases the parser.
func (a *Analyzer) Close() {
	a.parser.Close()
}

func countBranches(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	count := 0
	switch t := n.Type(); {
	case branchNodes[t]:
		count++
	case t == "binary_expression":
		if op := n.ChildByFieldName("operator"); op != nil && logicalOperators[op.Type()] {
			count++
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		count += countBranches(n.Child(i))
	}
	return count
}

// LOC counts the non-blank lines of body.
func LOC(body string) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
