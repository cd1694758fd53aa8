package version

// Version is the service current released version.
// This value can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/charecktowa/thesis-match/internal/version.Version=v1.0.0"
var Version = "1.0.0"

// DevVersion is the service current development version.
var DevVersion = Version + "-dev"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}
