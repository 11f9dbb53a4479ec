// ABOUTME: Build version information
// ABOUTME: Overridden at link time with -ldflags "-X ...version.Version=..."
package version

// Version is the release version, or "dev" for local builds
var Version = "dev"

const (
	// Product is the application name
	Product = "Sigmund's Couch"

	// Manufacturer is shown alongside the version
	Manufacturer = "Couch Project"
)

// String returns the product and version for display
func String() string {
	return Product + " " + Version
}
