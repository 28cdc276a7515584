// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command tmdbx calls the TMDb API from the command line.
package main

import (
	"os"

	"github.com/gogama/tmdbx/internal/cli"
)

var (
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.BuildInfo{BuildTime: buildTime, GitCommit: gitCommit}))
}
