// Package tracker is the application service of gopher-golf. It sanitizes
// round forms, applies the handicap engine on save, keeps the course catalog
// and its search cache, and builds the dashboard. The HTTP API and the CLI
// both go through a Service.
package tracker
