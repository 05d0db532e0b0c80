package schema

// FieldKind is the closed classification of a property definition. It is
// derived once per property so that value construction, validation, and any
// rendering layer branch on the same tag instead of re-inspecting the raw
// definition shape.
type FieldKind int

const (
	KindString FieldKind = iota
	KindEnum
	KindDate
	KindDateTime
	KindNumber
	KindBoolean
	KindArray
	KindObject
	KindConst
	// KindSpecial is a $ref to a registered composite type.
	KindSpecial
	// KindRef is a $ref to a generic (non-special) definition.
	KindRef
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindDate:
		return "date"
	case KindDateTime:
		return "date-time"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindConst:
		return "const"
	case KindSpecial:
		return "special"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Field is the classified view of one property.
type Field struct {
	Kind FieldKind
	// Special is set only when Kind == KindSpecial.
	Special SpecialType
}

// Classify derives the Field for a property definition.
//
// Precedence mirrors value construction: const beats everything (const
// fields are never editable), then $ref, then enum, then declared type with
// format refinement for strings.
func Classify(def *Definition) Field {
	if def == nil {
		return Field{Kind: KindString}
	}
	if def.Const != nil {
		return Field{Kind: KindConst}
	}
	if def.Ref != "" {
		if st, ok := DetectSpecialType(def.Ref); ok {
			return Field{Kind: KindSpecial, Special: st}
		}
		return Field{Kind: KindRef}
	}
	if len(def.Enum) > 0 {
		return Field{Kind: KindEnum}
	}
	switch def.Type {
	case "string":
		switch def.Format {
		case "date":
			return Field{Kind: KindDate}
		case "date-time":
			return Field{Kind: KindDateTime}
		}
		return Field{Kind: KindString}
	case "number", "integer":
		return Field{Kind: KindNumber}
	case "boolean":
		return Field{Kind: KindBoolean}
	case "array":
		return Field{Kind: KindArray}
	case "object":
		return Field{Kind: KindObject}
	default:
		return Field{Kind: KindString}
	}
}
