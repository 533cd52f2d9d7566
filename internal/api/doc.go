// Package api implements the HTTP JSON API for gopher-golf.
//
// New(svc) returns an http.Handler that serves:
//
//	GET    /health                        liveness
//	GET    /metrics                       Prometheus text exposition (?format=json for a snapshot)
//	GET    /api/v1/rounds                 the player's rounds, newest first
//	POST   /api/v1/rounds                 add a round from a form object
//	GET    /api/v1/rounds/{id}            one round
//	PUT    /api/v1/rounds/{id}            replace a round
//	DELETE /api/v1/rounds/{id}            delete a round and its files
//	GET    /api/v1/rounds/{id}/files      files attached to a round
//	POST   /api/v1/rounds/{id}/files      attach a file URL
//	GET    /api/v1/dashboard              handicap, stats, filtered rounds, trend
//	POST   /api/v1/recompute              recompute stored differentials
//	GET    /api/v1/courses?q=             search the course catalog
//	POST   /api/v1/courses                add a course with its tees
//	GET    /api/v1/courses/names          catalog course names
//	GET    /api/v1/courses/tees?name=     tees of one course
//	POST   /api/v1/courses/fetch          fetch course data from a page URL
//	POST   /api/v1/courses/import         fetch and add to the catalog
//	POST   /api/v1/differential           compute one differential
//	POST   /api/v1/handicap               compute an index from differentials
//	POST   /scrape-course                 the course-data stub
//
// Round forms are JSON objects whose values may be strings, numbers or
// null; they are sanitized the same way as the CLI's flags. Errors are
// returned as {"error": "..."}. No external HTTP framework is used.
package api
