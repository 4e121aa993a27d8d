// Package version reports the recorder's build information. Values are
// stamped at link time and fall back to the module's VCS build settings:
//
//	go build -ldflags "-X github.com/kbukum/recorder/version.Version=1.2.0" ./cmd/recorder
package version
