// Command fleet-snapshot prints the dashboard's current fleet as JSON, or
// with -watch every update until interrupted.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	internalgrpc "github.com/mr1hm/go-ambulance-dashboard/internal/grpc"
	"github.com/mr1hm/go-ambulance-dashboard/internal/logging"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("FLEET_GRPC_ADDR", "localhost:50051"), "dashboard gRPC address")
	watch := flag.Bool("watch", false, "keep printing updates")
	stats := flag.Bool("stats", false, "print admin statistics instead of the fleet")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout for one-shot calls")
	flag.Parse()

	logging.Setup(envOr("LOG_LEVEL", "warn"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logging.Fatalf("failed to connect to %s: %v", *addr, err)
	}
	defer conn.Close()

	client := internalgrpc.NewClient(conn)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *watch {
		err := client.StreamFleet(ctx, func(u fleet.Update) error {
			return enc.Encode(u)
		})
		if err != nil && ctx.Err() == nil {
			logging.Fatalf("fleet stream ended: %v", err)
		}
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var v any
	if *stats {
		v, err = client.GetStats(callCtx)
	} else {
		v, err = client.GetFleet(callCtx)
	}
	if err != nil {
		logging.Fatalf("request to %s failed: %v", *addr, err)
	}
	if err := enc.Encode(v); err != nil {
		logging.Fatalf("failed to write output: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
