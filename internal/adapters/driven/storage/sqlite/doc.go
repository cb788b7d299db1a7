// Package sqlite implements the content store on SQLite via modernc.org/sqlite.
//
// The store owns a single content table plus a schema_migrations table.
// Migrations are embedded SQL files applied forward-only at startup.
package sqlite
