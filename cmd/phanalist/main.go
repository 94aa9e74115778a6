// # cmd/phanalist/main.go
package main

import (
	"os"
	"phanalist/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
