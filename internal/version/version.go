// Package version carries the build version, stamped via -ldflags at
// release time.
package version

var Version = "dev"
