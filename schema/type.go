package schema

import "time"

// Type is the closed set of semantic field types the engine understands.
// Declared field types come from entity definitions; inferred types come
// from literal values via Infer. The two meet in Compatible.
type Type int

const (
	// TypeInvalid marks undeclared fields and unsupported literal values.
	// It is compatible with nothing.
	TypeInvalid Type = iota

	// TypeUntyped is the inferred type of a nil literal. It is compatible
	// with every declared type.
	TypeUntyped

	TypeInteger
	TypeFloat
	TypeString
	TypeBool
	TypeTime
	TypeBinary
)

var typeNames = map[Type]string{
	TypeInvalid: "invalid",
	TypeUntyped: "untyped",
	TypeInteger: "integer",
	TypeFloat:   "float",
	TypeString:  "string",
	TypeBool:    "bool",
	TypeTime:    "time",
	TypeBinary:  "binary",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "invalid"
}

// Numeric reports whether t is one of the numeric types.
func (t Type) Numeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// Infer maps a Go literal to its semantic type. A nil value infers as
// TypeUntyped; values outside the supported set infer as TypeInvalid.
func Infer(value any) Type {
	switch value.(type) {
	case nil:
		return TypeUntyped
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case float32, float64:
		return TypeFloat
	case string:
		return TypeString
	case bool:
		return TypeBool
	case time.Time:
		return TypeTime
	case []byte:
		return TypeBinary
	default:
		return TypeInvalid
	}
}

// Compatible reports whether a value of inferred type may occupy a field
// declared with the given type. The relation widens rather than requiring
// equality: an untyped value is compatible with every declared type, and a
// numeric literal is compatible with any numeric column. Invalid types are
// compatible with nothing.
func Compatible(inferred, declared Type) bool {
	if inferred == TypeInvalid || declared == TypeInvalid {
		return false
	}
	if inferred == TypeUntyped {
		return true
	}
	if inferred == declared {
		return true
	}
	return inferred.Numeric() && declared.Numeric()
}
