// Package kdoc builds an offline, name-searchable docset from the Kotlin
// API reference. It mirrors the reference site, classifies every documented
// symbol from its declaration signature, and records (name, kind, path)
// triples in a deduplicated SQLite index that documentation viewers read.
//
// This package contains domain types, interfaces and the pure
// classification logic, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, goquery/, wget/).
package kdoc
