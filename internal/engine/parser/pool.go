package parser

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parsers bound to one grammar so that
// watch-mode rescans do not allocate a parser per file.
//
//	sp := pool.Get()
//	defer pool.Put(sp)
//	tree := sp.Parse(source, nil)
//
// Safe for concurrent use.
type ParserPool struct {
	lang *sitter.Language
	pool sync.Pool

	mu     sync.Mutex
	leased int
}

// NewParserPool creates a pool for the given grammar. The language must stay
// valid for the lifetime of the pool.
func NewParserPool(lang *sitter.Language) *ParserPool {
	p := &ParserPool{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			_ = sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

// Get returns a parser configured for the pool's grammar.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	// Reset() drops the language on some bindings.
	_ = sp.SetLanguage(p.lang)

	p.mu.Lock()
	p.leased++
	p.mu.Unlock()
	return sp
}

// Put resets sp and returns it to the pool. Callers must not use sp after
// Put.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}

	p.mu.Lock()
	p.leased--
	p.mu.Unlock()

	sp.Reset()
	p.pool.Put(sp)
}

// Leased returns the number of parsers currently checked out.
func (p *ParserPool) Leased() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leased
}
