package launchd

// Version is the current version of the go-launchd library
const Version = "0.1.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Utility is the process-control utility this library drives
	Utility string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version: Version,
		Utility: "launchctl",
	}
}
