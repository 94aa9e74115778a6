// Package source holds the per-file view the rules analyse.
package source

import (
	"phanalist/internal/engine/php/ast"
	"strings"
)

// File is one parsed PHP file. It is immutable after New returns and is
// dropped once its violations have been collected.
type File struct {
	Path       string
	Lines      []string
	Statements []ast.Stmt

	namespace string
	className string
}

// New builds a File from its raw content and parsed statements. A nil
// statement list (parse failure) yields a file with no namespace and no
// class.
func New(path string, content []byte, stmts []ast.Stmt) *File {
	f := &File{
		Path:       path,
		Lines:      splitLines(string(content)),
		Statements: stmts,
	}
	f.namespace, f.className = resolveNames(stmts)
	return f
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// resolveNames finds the first namespace declaration and the first class
// declaration, looking into namespace bodies.
func resolveNames(stmts []ast.Stmt) (namespace, class string) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Namespace:
			if namespace == "" {
				namespace = s.Name
			}
			if class == "" {
				_, class = resolveNames(s.Statements)
			}
		case *ast.Class:
			if class == "" {
				class = s.Name
			}
		}
		if namespace != "" && class != "" {
			return namespace, class
		}
	}
	return namespace, class
}

// Namespace returns the file's namespace, if any.
func (f *File) Namespace() (string, bool) {
	return f.namespace, f.namespace != ""
}

// ClassName returns the primary class name declared in the file, if any.
func (f *File) ClassName() (string, bool) {
	return f.className, f.className != ""
}

// FullyQualifiedName is namespace + `\` + class name when both exist, the
// class name alone when there is no namespace, and absent otherwise.
func (f *File) FullyQualifiedName() (string, bool) {
	if f.className == "" {
		return "", false
	}
	if f.namespace == "" {
		return f.className, true
	}
	return f.namespace + `\` + f.className, true
}

// Line returns the text of the 1-based line n, or "" when n is out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.Lines) {
		return ""
	}
	return f.Lines[n-1]
}
