package main

import (
	"fmt"
	"os"

	"github.com/azzylc/gmt-app-main-sub000/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, cli.Error(err.Error()))
		os.Exit(1)
	}
}
