package cli

import (
	"strings"

	"mercator-hq/ruleengine/pkg/rule/ast"
)

// RenderTree draws n as an indented tree, one node per line:
//
//	AND
//	├── age > 18
//	└── OR
//	    ├── country = 'US'
//	    └── country = 'CA'
func RenderTree(n ast.Node) string {
	if ast.IsNil(n) {
		return "<empty>\n"
	}
	var b strings.Builder
	b.WriteString(label(n))
	b.WriteByte('\n')
	renderChildren(&b, n, "")
	return b.String()
}

func renderChildren(b *strings.Builder, n ast.Node, prefix string) {
	children := ast.Children(n)
	for i, child := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}
		b.WriteString(prefix)
		b.WriteString(branch)
		b.WriteString(label(child))
		b.WriteByte('\n')
		renderChildren(b, child, prefix+indent)
	}
}

func label(n ast.Node) string {
	if c, ok := n.(*ast.Condition); ok {
		return c.Text
	}
	return string(n.Type())
}
