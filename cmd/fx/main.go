package main

import (
	"log"

	"github.com/brandonbloom/fx/internal/cli"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fx: ")
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
