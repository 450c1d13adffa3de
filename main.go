package main

import (
	"github.com/Ethernal-Tech/bridge-transparency/cli"
)

func main() {
	cli.NewRootCommand().Execute()
}
