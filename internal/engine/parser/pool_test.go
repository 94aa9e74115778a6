package parser

import (
	"sync"
	"testing"
)

const poolSource = "<?php\nfunction run() {}\n"

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(PHPLanguage())

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	if pool.Leased() != 1 {
		t.Fatalf("expected one leased parser, got %d", pool.Leased())
	}

	pool.Put(sp)
	if pool.Leased() != 0 {
		t.Fatalf("expected no leased parsers, got %d", pool.Leased())
	}
}

func TestParserPool_PutNil(t *testing.T) {
	pool := NewParserPool(PHPLanguage())
	pool.Put(nil)
	if pool.Leased() != 0 {
		t.Fatalf("Put(nil) changed the lease count to %d", pool.Leased())
	}
}

func TestParserPool_ParsesValidPHP(t *testing.T) {
	pool := NewParserPool(PHPLanguage())

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse([]byte(poolSource), nil)
	if tree == nil {
		t.Fatal("expected non-nil parse tree for valid PHP source")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		t.Fatal("expected error-free root node")
	}
	if root.Kind() != "program" {
		t.Fatalf("expected program root, got %q", root.Kind())
	}
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(PHPLanguage())

	const goroutines = 20
	const iters = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				sp := pool.Get()
				tree := sp.Parse([]byte(poolSource), nil)
				if tree == nil {
					t.Errorf("expected non-nil parse tree")
				} else {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}

	wg.Wait()
	if pool.Leased() != 0 {
		t.Fatalf("expected all parsers returned, got %d leased", pool.Leased())
	}
}

func TestParserPool_LanguageSetAfterReset(t *testing.T) {
	pool := NewParserPool(PHPLanguage())

	sp := pool.Get()
	sp.Reset()
	pool.Put(sp)

	sp2 := pool.Get()
	defer pool.Put(sp2)

	tree := sp2.Parse([]byte(poolSource), nil)
	if tree == nil {
		t.Fatal("parser should still parse after a reset round trip")
	}
	defer tree.Close()
}
