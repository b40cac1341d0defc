package main

import (
	_ "embed"

	"docweaver/cmd"
	"docweaver/internal/version"
)

//go:embed VERSION
var versionMarker []byte

// packageVersion is substituted at build time with
// -ldflags "-X main.packageVersion=<version>".
var packageVersion = version.Placeholder

func main() {
	cmd.Execute(version.Resolve(packageVersion, versionMarker))
}
