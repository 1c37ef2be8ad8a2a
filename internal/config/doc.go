// Package config provides configuration structures and utilities for
// webcrawler: the command line options, the optional .webcrawler YAML file
// with per-site overrides, origin normalization and the XDG directories.
package config
