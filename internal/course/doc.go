// Package course provides the golf course catalog types: courses, their tee
// boxes with course and slope ratings, search result grouping and caching,
// and a client for the course-data fetch endpoint.
//
// Courses are stored one row per tee. GroupTees folds rows back into courses
// keyed by name, city and state. The fetch endpoint is a stub that returns a
// fixed payload (see Stub); the client treats its response purely as a
// source of tee ratings.
package course
