package symbols

// Type is the closed set of declared types. The uppercase French spelling is
// used directly in diagnostics.
type Type string

const (
	TypeInteger Type = "ENTIER"
	TypeReal    Type = "REEL"
	TypeText    Type = "TEXTE"
	TypeBoolean Type = "BOOLEEN"

	// TypeUnknown marks an expression whose type could not be determined,
	// usually downstream of another error; it suppresses cascading
	// diagnostics.
	TypeUnknown Type = "unknown"
)

// IsNumeric reports whether t participates in arithmetic and ordering
// comparisons.
func (t Type) IsNumeric() bool {
	return t == TypeInteger || t == TypeReal
}

// SymbolInfo describes one declared name: a variable, an array, a parameter,
// or a function/procedure signature.
type SymbolInfo struct {
	Name string
	Type Type
	Line int
	Col  int

	IsArray bool

	// Function/procedure signature
	IsFunction bool
	ParamTypes []Type
	ReturnType Type // TypeUnknown for procedures
}
