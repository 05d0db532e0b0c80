// Package keys manages the signing identity: P-256 key pair generation and
// import in JWK form, deterministic RFC 7638 thumbprints as key ids, local
// persistence of the key-pair record and issuer string, and trust lookup
// against the BIND directory's published key sets.
package keys
