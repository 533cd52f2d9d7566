// Package cli implements the gopher command.
//
// The cli package provides the Cobra-based CLI: serving the HTTP API,
// computing differentials and handicap indexes, managing rounds and the
// course catalog, and printing the dashboard as text or JSON. It wires
// config, storage and the tracker service together for each invocation.
package cli
