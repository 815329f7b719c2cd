// Package main provides the funding ledger CLI: inspection subcommands
// over a local record store plus a demo seeding lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	fundingcmd "github.com/openbuidl/fundvault/internal/cmd/funding"
)

func main() {
	cfg, args, err := fundingcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[FUNDING] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fundingcmd.Run(ctx, cfg, args, os.Stdout); err != nil {
		log.Fatalf("funding command: %v", err)
	}
}
