// Package db embeds the storefront schema so binaries can run migrations
// without shipping SQL files alongside them.
package db

import _ "embed"

// Schema contains the DDL for the catalog, customer, order, and promotion
// tables. Statements are idempotent (IF NOT EXISTS) and safe to re-run.
//
//go:embed migrations/001_schema.sql
var Schema string
