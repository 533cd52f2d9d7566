// Package storage persists rounds, course tees and round files in a
// relational database.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, a local file, the
// default at ~/.local/share/gopher-golf/gopher.db) and "postgres" (lib/pq, a
// hosted backend). Queries are written with ? placeholders and rebound to
// $n for postgres. The schema is created on Open and mirrors the hosted
// tables: golf_courses (one row per tee), rounds and round_files.
package storage
