// Command dubberd runs the dubbing daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"dubber/internal/config"
	"dubber/internal/daemonrun"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	cfg, path, exists, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !exists {
		fmt.Fprintf(os.Stderr, "no config file found at %s, using defaults\n", path)
	}

	if err := daemonrun.Run(context.Background(), cfg); err != nil {
		log.Fatalf("dubberd: %v", err)
	}
}
