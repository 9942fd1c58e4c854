package main

import (
	"github.com/kaljuvee/polygon-mcp/internal/cli"
)

func main() {
	cli.Run()
}
