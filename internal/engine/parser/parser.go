// Package parser turns PHP source into the ast package's syntax tree using
// the tree-sitter PHP grammar.
package parser

import (
	"phanalist/internal/core/errors"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/shared/observability"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// Parser converts PHP files into statement lists. A Parser is safe for
// concurrent use.
type Parser struct {
	pool *ParserPool
}

// PHPLanguage returns the tree-sitter grammar for PHP files, which may mix
// inline HTML with PHP code.
func PHPLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_php.LanguagePHP())
}

func New() *Parser {
	return &Parser{pool: NewParserPool(PHPLanguage())}
}

// Parse returns the top-level statements of content. Source with syntax
// errors yields a nil statement list and a CodeValidationError; callers
// treat that as an empty file.
func (p *Parser) Parse(path string, content []byte) ([]ast.Stmt, error) {
	start := time.Now()
	defer func() {
		observability.ParsingDuration.Observe(time.Since(start).Seconds())
	}()

	sp := p.pool.Get()
	defer p.pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "empty parse tree"), errors.CtxPath, path)
	}
	if root.HasError() {
		observability.ParseFailuresTotal.Inc()
		line := 0
		if bad := firstError(root); bad != nil {
			line = int(bad.StartPosition().Row) + 1
		}
		err := errors.AddContext(errors.New(errors.CodeValidationError, "syntax error"), errors.CtxPath, path)
		return nil, errors.AddContext(err, errors.CtxLine, line)
	}

	c := &converter{src: content}
	return c.program(root), nil
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if bad := firstError(node.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
