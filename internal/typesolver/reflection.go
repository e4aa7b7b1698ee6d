package typesolver

import "strings"

// ReflectionSolver answers from a pre-compiled universe of the core
// library types, the ones every compilation unit can see without imports.
// It accepts both qualified names and the java.lang simple names.
type ReflectionSolver struct {
	byQualified map[string]*TypeDeclaration
	bySimple    map[string]*TypeDeclaration
}

// coreTypes is the bundled metadata universe. Only identity and kind are
// recorded; members beyond record components are not needed for
// resolution.
var coreTypes = []struct {
	qualified string
	kind      TypeKind
}{
	{"java.lang.Object", KindClass},
	{"java.lang.String", KindClass},
	{"java.lang.CharSequence", KindInterface},
	{"java.lang.Integer", KindClass},
	{"java.lang.Long", KindClass},
	{"java.lang.Short", KindClass},
	{"java.lang.Byte", KindClass},
	{"java.lang.Double", KindClass},
	{"java.lang.Float", KindClass},
	{"java.lang.Boolean", KindClass},
	{"java.lang.Character", KindClass},
	{"java.lang.Number", KindClass},
	{"java.lang.Comparable", KindInterface},
	{"java.lang.Iterable", KindInterface},
	{"java.lang.Runnable", KindInterface},
	{"java.lang.Thread", KindClass},
	{"java.lang.System", KindClass},
	{"java.lang.Math", KindClass},
	{"java.lang.Record", KindClass},
	{"java.lang.Throwable", KindClass},
	{"java.lang.Exception", KindClass},
	{"java.lang.RuntimeException", KindClass},
	{"java.lang.Error", KindClass},
	{"java.lang.IllegalArgumentException", KindClass},
	{"java.lang.IllegalStateException", KindClass},
	{"java.lang.NumberFormatException", KindClass},
	{"java.lang.NullPointerException", KindClass},
	{"java.lang.ClassCastException", KindClass},
	{"java.lang.ArithmeticException", KindClass},
	{"java.lang.IndexOutOfBoundsException", KindClass},
	{"java.lang.UnsupportedOperationException", KindClass},
	{"java.lang.AutoCloseable", KindInterface},
	{"java.lang.StringBuilder", KindClass},
	{"java.lang.Class", KindClass},
	{"java.lang.Void", KindClass},
	{"java.util.List", KindInterface},
	{"java.util.ArrayList", KindClass},
	{"java.util.Map", KindInterface},
	{"java.util.HashMap", KindClass},
	{"java.util.Set", KindInterface},
	{"java.util.HashSet", KindClass},
	{"java.util.Optional", KindClass},
	{"java.util.Iterator", KindInterface},
	{"java.util.Collection", KindInterface},
	{"java.io.IOException", KindClass},
	{"java.io.FileNotFoundException", KindClass},
	{"java.io.InputStream", KindClass},
	{"java.io.OutputStream", KindClass},
	{"java.io.FileInputStream", KindClass},
	{"java.io.BufferedReader", KindClass},
	{"java.io.InputStreamReader", KindClass},
	{"java.io.Reader", KindClass},
	{"java.io.Writer", KindClass},
	{"java.io.Closeable", KindInterface},
}

// NewReflectionSolver builds the solver over the bundled universe.
func NewReflectionSolver() *ReflectionSolver {
	r := &ReflectionSolver{
		byQualified: make(map[string]*TypeDeclaration, len(coreTypes)),
		bySimple:    make(map[string]*TypeDeclaration, len(coreTypes)),
	}
	for _, ct := range coreTypes {
		simple := ct.qualified[strings.LastIndex(ct.qualified, ".")+1:]
		decl := &TypeDeclaration{
			QualifiedName: ct.qualified,
			SimpleName:    simple,
			Kind:          ct.kind,
			Origin:        "reflection",
		}
		r.byQualified[ct.qualified] = decl
		// First registration wins for simple names; the universe has no
		// duplicates today.
		if _, ok := r.bySimple[simple]; !ok {
			r.bySimple[simple] = decl
		}
	}
	return r
}

func (r *ReflectionSolver) Name() string {
	return "reflection"
}

func (r *ReflectionSolver) Solve(qualifiedName string) (*TypeDeclaration, error) {
	if decl, ok := r.byQualified[qualifiedName]; ok {
		return decl, nil
	}
	if decl, ok := r.bySimple[qualifiedName]; ok {
		return decl, nil
	}
	return nil, &UnsolvedTypeError{TypeName: qualifiedName, Tried: []string{r.Name()}}
}
