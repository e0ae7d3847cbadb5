package table

// Kind enumerates supported column element types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindTime
	// KindAny holds arbitrary values, like an object column.
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) Kind {
	for k := KindBool; k <= KindAny; k++ {
		if k.String() == s {
			return k
		}
	}
	return KindInvalid
}

// IsNumericKind reports whether k is an integer, unsigned or float kind.
// Bool is deliberately excluded.
func IsNumericKind(k Kind) bool {
	return k == KindInt || k == KindUint || k == KindFloat
}

// NumericDType reports whether every column of t satisfies numeric.
// A nil numeric falls back to IsNumericKind.
func NumericDType(t Table, numeric func(Kind) bool) bool {
	if numeric == nil {
		numeric = IsNumericKind
	}
	_, cols := t.Dims()
	for j := 0; j < cols; j++ {
		if !numeric(t.ColumnKind(j)) {
			return false
		}
	}
	return true
}
