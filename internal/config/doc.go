// Package config provides configuration structures and utilities for wikirefs.
// It defines the main options for searching Wikipedia, fetching references,
// execution mode selection, and report generation preferences.
package config
