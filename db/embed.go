// Package db embeds the DDL schema applied at startup and by the test
// harness.
package db

import _ "embed"

// Schema is the full DDL for the order engine. Statements are idempotent so
// the schema can be re-applied against an existing database.
//
//go:embed schema.sql
var Schema string
