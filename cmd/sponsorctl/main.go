// cmd/sponsorctl/main.go
package main

import "sponsor-insights/internal/cli"

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cli.Execute(Version)
}
