package main

import (
	"github.com/playtoearn/coinserver/internal/cli"
)

func main() {
	cli.Execute()
}
