// Package config provides configuration structures and utilities for scanmark.
// It defines the runtime options assembled from CLI flags, the optional YAML
// configuration file, and the XDG directories used for the annotation database.
package config
