package main

import (
	"github.com/NVIDIA/dataeng-lifecycle/pkg/cli"
)

func main() {
	cli.Execute()
}
