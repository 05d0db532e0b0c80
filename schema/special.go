package schema

// SpecialType names a definition that is structurally a generic object but
// semantically a domain composite, so value construction and rendering give
// it first-class treatment.
type SpecialType string

const (
	SpecialCoding              SpecialType = "Coding"
	SpecialCodeableConcept     SpecialType = "CodeableConcept"
	SpecialReference           SpecialType = "Reference"
	SpecialMoney               SpecialType = "Money"
	SpecialMoneyWithConversion SpecialType = "MoneyWithConversion"
	SpecialMultiCurrencyMoney  SpecialType = "MultiCurrencyMoney"
	SpecialPeriod              SpecialType = "Period"
	SpecialDateTimePeriod      SpecialType = "DateTimePeriod"
	SpecialHumanName           SpecialType = "HumanName"
	SpecialAddress             SpecialType = "Address"
	SpecialContactPoint        SpecialType = "ContactPoint"
	SpecialAttachment          SpecialType = "Attachment"
	SpecialGeoPoint            SpecialType = "GeoPoint"
	SpecialIdentifier          SpecialType = "Identifier"
	SpecialQuantity            SpecialType = "Quantity"
)

// specialTypes is the closed registry of composite-type definition names.
var specialTypes = map[SpecialType]bool{
	SpecialCoding:              true,
	SpecialCodeableConcept:     true,
	SpecialReference:           true,
	SpecialMoney:               true,
	SpecialMoneyWithConversion: true,
	SpecialMultiCurrencyMoney:  true,
	SpecialPeriod:              true,
	SpecialDateTimePeriod:      true,
	SpecialHumanName:           true,
	SpecialAddress:             true,
	SpecialContactPoint:        true,
	SpecialAttachment:          true,
	SpecialGeoPoint:            true,
	SpecialIdentifier:          true,
	SpecialQuantity:            true,
}

// IsSpecialType reports whether a definition name is a known composite type.
func IsSpecialType(name string) bool {
	return specialTypes[SpecialType(name)]
}

// DetectSpecialType classifies a $ref string. It returns ok=false for refs
// that are not local definition pointers and for names outside the registry.
func DetectSpecialType(ref string) (SpecialType, bool) {
	name := RefName(ref)
	if name == "" || !IsSpecialType(name) {
		return "", false
	}
	return SpecialType(name), true
}
