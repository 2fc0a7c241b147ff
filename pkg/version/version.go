// Package version carries build identification injected at link time.
package version

// Values are overridden via -ldflags at release build time.
var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the Git hash the binary was built from.
	Commit = "<unknown>"
	// Date is the build timestamp.
	Date = "<unknown>"
)
