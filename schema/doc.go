// Package schema implements the BIND JSON-Schema engine: $ref resolution,
// special-type detection, field classification, initial-value construction,
// and structural (required/enum) validation of resources.
//
// Schema documents are immutable once loaded; every function in this package
// is pure and safe for concurrent use on the same Document.
package schema
