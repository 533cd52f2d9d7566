// Package config loads gopher-golf settings.
//
// Settings come from an optional YAML file, then from environment variables
// (an optional .env file is loaded into the environment first). Missing
// values fall back to the defaults in this package. Command line flags are
// applied on top by the caller.
//
// Example file:
//
//	server:
//	  addr: ":8080"
//	database:
//	  driver: sqlite
//	  dsn: ~/.local/share/gopher-golf/gopher.db
//	handicap:
//	  best_of: 8
//	  factor: 0.96
//	  nine_hole_rounds: include
//	scrape:
//	  endpoint: http://localhost:8081/scrape-course
//	log:
//	  level: info
package config
