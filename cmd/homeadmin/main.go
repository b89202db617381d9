package main

import (
	"go.safehomi.dev/homeadmin/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}
