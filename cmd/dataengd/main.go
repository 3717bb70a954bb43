package main

import (
	"log"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
