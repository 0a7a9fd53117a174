// Copyright (c) HashiCorp, Inc.

package main

import "github.com/hashicorp/go-unpack/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the go-unpack cli `gounpack`
func main() {
	cmd.Run(version, commit, date)
}
