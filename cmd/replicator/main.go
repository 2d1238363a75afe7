// cmd/replicator/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sts-replicator/internal/config"
	"sts-replicator/internal/logging"
	"sts-replicator/internal/poller"
	"sts-replicator/internal/status"
	"sts-replicator/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: replicator <config.yaml>")
		os.Exit(2)
	}

	level, err := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad LOG_LEVEL: %v\n", err)
		os.Exit(2)
	}
	slog.SetDefault(logging.New(level, os.Getenv("APP_ENV") != "prod"))

	// --------------------
	// Configuration
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// One pipeline per unit
	// --------------------

	for _, unit := range cfg.Replicator.Units {
		if err := startUnit(ctx, unit); err != nil {
			slog.Error("unit start failed", "unit", unit.ID, "err", err)
			os.Exit(1)
		}
		slog.Info("unit started",
			"unit", unit.ID,
			"board", fmt.Sprintf("%s:%d", unit.Source.Host, unit.Source.Port),
			"targets", len(unit.Targets),
		)
	}

	slog.Info("replicator running", "units", len(cfg.Replicator.Units))
	<-ctx.Done()
	slog.Info("shutting down")
}

func startUnit(ctx context.Context, u config.UnitConfig) error {
	p, err := poller.Build(u)
	if err != nil {
		return fmt.Errorf("poller: %w", err)
	}

	targets, closeTargets, err := writer.Build(u)
	if err != nil {
		return fmt.Errorf("targets: %w", err)
	}

	dataWriter := writer.New(u.ID, targets)

	statusWriter, statusEnabled, err := writer.NewStatusWriter(u)
	if err != nil {
		_ = closeTargets()
		return fmt.Errorf("status: %w", err)
	}

	// ---- channel between poller and writer ----
	out := make(chan poller.PollResult)

	go orchestrate(ctx, u.ID, dataWriter, statusWriter, statusEnabled, out, closeTargets)
	go p.Run(ctx, out)

	return nil
}

// orchestrate owns the unit's runtime state: delivers poll results to the
// targets and keeps the status block on the source board current. Seconds
// in error advance on the 1 Hz ticker only.
func orchestrate(
	ctx context.Context,
	unitID string,
	dataWriter writer.Writer,
	statusWriter writer.StatusWriter,
	statusEnabled bool,
	out <-chan poller.PollResult,
	closeTargets func() error,
) {
	defer func() {
		if err := closeTargets(); err != nil {
			slog.Error("target close failed", "unit", unitID, "err", err)
		}
	}()

	snap := status.Snapshot{Health: status.HealthUnknown}

	// The status writer skips unchanged snapshots itself.
	writeStatus := func() {
		if !statusEnabled {
			return
		}
		if err := statusWriter.WriteStatus(snap); err != nil {
			slog.Warn("status write failed", "unit", unitID, "err", err)
		}
	}

	// Assert the full status block before the first cycle.
	writeStatus()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-out:
			if err := dataWriter.Write(res); err != nil {
				slog.Error("writer error", "unit", unitID, "err", err)
			}

			if res.Err == nil {
				snap = status.Snapshot{Health: status.HealthOK}
			} else {
				slog.Warn("poll cycle failed", "unit", unitID, "err", res.Err)
				snap.Health = status.HealthError
				snap.LastErrorCode = status.ErrorCode(res.Err)
				snap.LastErrorText = res.Err.Error()
			}
			writeStatus()

		case <-secTicker.C:
			// Seconds in error advance only while unhealthy.
			if snap.Health != status.HealthOK && snap.SecondsInError < status.SecondsInErrorMax {
				snap.SecondsInError++
				writeStatus()
			}
		}
	}
}
