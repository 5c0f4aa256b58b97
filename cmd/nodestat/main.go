package main

import (
	"github.com/NVIDIA/nodestat/pkg/cli"
)

func main() {
	cli.Execute()
}
