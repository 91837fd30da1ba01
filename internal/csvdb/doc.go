// Package csvdb provides a generic, CSV-backed table with full-file I/O.
//
// # Overview
//
// The package centers around [Table], a generic container that stores rows
// of a Go struct type in a single CSV file. The column set is derived from the
// row type by JSON Schema reflection, so the header always matches the struct
// fields (in declaration order) even when the table holds no rows.
//
// # Access pattern
//
// Every [Table.Load] reads the whole file and every [Table.Save] rewrites the
// whole file. There is no cache, no index and no locking: concurrent writers
// race and the last [Table.Save] wins. Save writes to a temporary file in the
// same directory and renames it over the table, so a reader never observes a
// half-written file.
//
// # File Format
//
// RFC 4180 CSV, UTF-8. Line 1 is the header (JSON field names). Empty cells
// mean the field is absent. Number columns hold decimal integers or floats.
package csvdb
