package nodes

// OutputType is the semantic type of an expression's result. Dialects map it
// to a concrete column type when they need to cast.
type OutputType string

const (
	TypeUnknown   OutputType = ""
	TypeInteger   OutputType = "integer"
	TypeBigInt    OutputType = "bigint"
	TypeFloat     OutputType = "float"
	TypeDecimal   OutputType = "decimal"
	TypeText      OutputType = "text"
	TypeBoolean   OutputType = "boolean"
	TypeTimestamp OutputType = "timestamp"
	TypeDate      OutputType = "date"
	TypeUUID      OutputType = "uuid"
	TypeBytes     OutputType = "bytes"
	TypeJSON      OutputType = "json"
)

func (t OutputType) String() string {
	if t == TypeUnknown {
		return "unknown"
	}
	return string(t)
}

// Known reports whether t is one of the declared output types.
func (t OutputType) Known() bool {
	switch t {
	case TypeInteger, TypeBigInt, TypeFloat, TypeDecimal, TypeText, TypeBoolean,
		TypeTimestamp, TypeDate, TypeUUID, TypeBytes, TypeJSON:
		return true
	}
	return false
}
