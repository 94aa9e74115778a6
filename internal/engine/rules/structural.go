package rules

import (
	"fmt"
	"phanalist/internal/engine/php/ast"
	"phanalist/internal/engine/results"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OpeningTag (E0001) requires the file's first opening tag at line 1,
// column 1. Executable scripts starting with a shebang are exempt.
type OpeningTag struct {
	Always
}

func NewOpeningTag() *OpeningTag {
	return &OpeningTag{Always{NewBase("E0001", "Opening tag position")}}
}

func (r *OpeningTag) Validate(file *File, stmt ast.Stmt) []results.Violation {
	tag, ok := stmt.(*ast.OpeningTag)
	if !ok || tag != firstOpeningTag(file.Statements) {
		return nil
	}
	if len(file.Lines) > 0 && strings.HasPrefix(strings.TrimSpace(file.Lines[0]), "#!") {
		return nil
	}
	// Short echo tags do not open a PHP file.
	if strings.HasPrefix(tag.Text, "<?=") {
		return nil
	}

	var out []results.Violation
	if tag.Span.Line > 1 {
		out = append(out, r.NewViolation(file,
			"The opening tag is not on the right line. This should always be the first line in a PHP file.",
			tag.Span))
	}
	if tag.Span.Column > 1 {
		out = append(out, r.NewViolation(file,
			fmt.Sprintf("The opening tag doesn't start at the right column: %d.", tag.Span.Column),
			tag.Span))
	}
	return out
}

func firstOpeningTag(stmts []ast.Stmt) *ast.OpeningTag {
	for _, stmt := range stmts {
		if tag, ok := stmt.(*ast.OpeningTag); ok {
			return tag
		}
	}
	return nil
}

// EmptyCatch (E0002) flags catch blocks without statements.
type EmptyCatch struct {
	Always
}

func NewEmptyCatch() *EmptyCatch {
	return &EmptyCatch{Always{NewBase("E0002", "Empty catch")}}
}

func (r *EmptyCatch) Validate(file *File, stmt ast.Stmt) []results.Violation {
	try, ok := stmt.(*ast.Try)
	if !ok {
		return nil
	}
	var out []results.Violation
	for _, catch := range try.Catches {
		if len(catch.Statements) == 0 {
			out = append(out, r.NewViolation(file,
				"There is an empty catch. It's not recommended to catch an Exception without doing anything with it.",
				catch.Span))
		}
	}
	return out
}

// MethodModifiers (E0003) flags methods declared without any modifier.
type MethodModifiers struct {
	Base
}

func NewMethodModifiers() *MethodModifiers {
	return &MethodModifiers{NewBase("E0003", "Method modifiers")}
}

func (r *MethodModifiers) Validate(file *File, stmt ast.Stmt) []results.Violation {
	var out []results.Violation
	for _, method := range ast.Methods(ast.MembersOf(stmt)) {
		if len(method.Modifiers) == 0 {
			out = append(out, r.NewViolation(file,
				fmt.Sprintf("Method name %q should be declared with a modifier.", method.Name),
				method.Span))
		}
	}
	return out
}

// UppercaseConstants (E0004) flags class and interface constants with a
// lowercase letter in their name.
type UppercaseConstants struct {
	Base
}

func NewUppercaseConstants() *UppercaseConstants {
	return &UppercaseConstants{NewBase("E0004", "Uppercase constants")}
}

func (r *UppercaseConstants) Validate(file *File, stmt ast.Stmt) []results.Violation {
	var members []ast.Member
	switch decl := stmt.(type) {
	case *ast.Class:
		members = decl.Members
	case *ast.Interface:
		members = decl.Members
	default:
		return nil
	}

	var out []results.Violation
	for _, member := range members {
		consts, ok := member.(*ast.ClassConst)
		if !ok {
			continue
		}
		for _, item := range consts.Items {
			if strings.IndexFunc(item.Name, unicode.IsLower) >= 0 {
				out = append(out, r.NewViolation(file,
					fmt.Sprintf("The constant %s should be uppercase.", item.Name),
					item.Span))
			}
		}
	}
	return out
}

// CapitalizedClassName (E0005) requires class names to start with an
// uppercase letter.
type CapitalizedClassName struct {
	Base
}

func NewCapitalizedClassName() *CapitalizedClassName {
	return &CapitalizedClassName{NewBase("E0005", "Capitalized class name")}
}

func (r *CapitalizedClassName) Validate(file *File, stmt ast.Stmt) []results.Violation {
	class, ok := stmt.(*ast.Class)
	if !ok || class.Name == "" {
		return nil
	}
	first, _ := utf8.DecodeRuneInString(class.Name)
	if unicode.IsUpper(first) {
		return nil
	}
	return []results.Violation{r.NewViolation(file,
		fmt.Sprintf("The class name %s is not capitalized. The first letter of the name of the class should be in uppercase.", class.Name),
		class.Span)}
}

// PropertyModifiers (E0006) flags class properties declared without a
// modifier, once per distinct property name.
type PropertyModifiers struct {
	Base
}

func NewPropertyModifiers() *PropertyModifiers {
	return &PropertyModifiers{NewBase("E0006", "Property modifiers")}
}

func (r *PropertyModifiers) Validate(file *File, stmt ast.Stmt) []results.Violation {
	class, ok := stmt.(*ast.Class)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var out []results.Violation
	for _, member := range class.Members {
		prop, ok := member.(*ast.Property)
		if !ok || len(prop.Modifiers) > 0 {
			continue
		}
		for _, entry := range prop.Entries {
			if seen[entry.Name] {
				continue
			}
			seen[entry.Name] = true
			out = append(out, r.NewViolation(file,
				fmt.Sprintf("The variables %s have no modifier.", entry.Name),
				entry.Span))
		}
	}
	return out
}

// ParameterCountSettings configures E0007.
type ParameterCountSettings struct {
	MaxParameters    int  `json:"max_parameters" yaml:"max_parameters" toml:"max_parameters"`
	CheckConstructor bool `json:"check_constructor" yaml:"check_constructor" toml:"check_constructor"`
}

// ParameterCount (E0007) flags methods with too many parameters.
type ParameterCount struct {
	Base
	settings ParameterCountSettings
}

func NewParameterCount() *ParameterCount {
	return &ParameterCount{
		Base:     NewBase("E0007", "Method parameters count"),
		settings: ParameterCountSettings{MaxParameters: 5, CheckConstructor: true},
	}
}

func (r *ParameterCount) Configure(settings any) {
	decodeSettings(r.Code(), settings, &r.settings)
}

func (r *ParameterCount) Settings() any { return r.settings }

func (r *ParameterCount) Validate(file *File, stmt ast.Stmt) []results.Violation {
	var out []results.Violation
	for _, method := range ast.Methods(ast.MembersOf(stmt)) {
		if len(method.Params) <= r.settings.MaxParameters {
			continue
		}
		if method.IsConstructor() {
			if !r.settings.CheckConstructor {
				continue
			}
			out = append(out, r.NewViolation(file,
				fmt.Sprintf("Constructor has too many parameters. More than %d parameters is considered a too much.", r.settings.MaxParameters),
				method.Span))
			continue
		}
		out = append(out, r.NewViolation(file,
			fmt.Sprintf("Method %s has too many parameters. More than %d parameters is considered a too much.", method.Name, r.settings.MaxParameters),
			method.Span))
	}
	return out
}

// ReturnTypeSignature (E0008) flags concrete class methods that return a
// literal without declaring a return type.
type ReturnTypeSignature struct {
	Base
}

func NewReturnTypeSignature() *ReturnTypeSignature {
	return &ReturnTypeSignature{NewBase("E0008", "Return type signature")}
}

func (r *ReturnTypeSignature) Validate(file *File, stmt ast.Stmt) []results.Violation {
	class, ok := stmt.(*ast.Class)
	if !ok {
		return nil
	}
	var out []results.Violation
	for _, method := range ast.Methods(class.Members) {
		if !method.HasBody || method.ReturnType != nil || !returnsLiteral(method.Statements) {
			continue
		}
		out = append(out, r.NewViolation(file,
			fmt.Sprintf("The method %s has a return statement but it has no return type signature.", method.Name),
			method.Span))
	}
	return out
}

func returnsLiteral(stmts []ast.Stmt) bool {
	for _, stmt := range stmts {
		ret, ok := stmt.(*ast.Return)
		if !ok {
			continue
		}
		if _, ok := ret.Value.(*ast.Literal); ok {
			return true
		}
	}
	return false
}
