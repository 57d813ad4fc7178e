package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brownbat/kingdom-clicker/internal/api"
	"github.com/brownbat/kingdom-clicker/internal/engine"
	"github.com/brownbat/kingdom-clicker/internal/kingdom"
	"github.com/brownbat/kingdom-clicker/internal/persistence"
	"github.com/brownbat/kingdom-clicker/internal/tuning"
)

var (
	runDBPath    string
	runPort      int
	runSeed      int64
	runSlot      string
	runStateFile string
	runSpeed     float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve a live settlement over the HTTP API",
	Long: `Starts the real-time tick loop and the HTTP API. The settlement is
loaded from the save slot if one exists, otherwise a fresh clearing is
settled. Progress autosaves, and Ctrl+C checkpoints before exit.

Set KINGDOM_ADMIN_KEY to enable the action/speed/save control endpoints.`,
	RunE: runServe,
}

func init() {
	runCmd.Flags().StringVar(&runDBPath, "db", "data/kingdom.db", "sqlite save database")
	runCmd.Flags().IntVar(&runPort, "port", 8080, "HTTP API port")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "world seed (0 = random)")
	runCmd.Flags().StringVar(&runSlot, "slot", "autosave", "save slot to load and autosave to")
	runCmd.Flags().StringVar(&runStateFile, "state", "", "start from a state file instead of the save slot")
	runCmd.Flags().Float64Var(&runSpeed, "speed", 1.0, "initial tick speed multiplier")
}

func runServe(cmd *cobra.Command, args []string) error {
	tune, err := tuning.Load(tuningPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(runDBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := persistence.Open(runDBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	k, err := loadWorld(db)
	if err != nil {
		return err
	}

	sim := engine.NewSimulation(k, tune, runSeed)
	if err := db.RecordRun(sim.Rng.Seed(), tune.Digest()); err != nil {
		slog.Warn("record run meta", "error", err)
	}

	eng := engine.NewEngine(sim)
	eng.SetSpeed(runSpeed)

	adminKey := os.Getenv("KINGDOM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("KINGDOM_ADMIN_KEY not set — control endpoints will be disabled")
	}

	srv := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Port:     runPort,
		AdminKey: adminKey,
	}
	eng.Mu = &srv.Mu

	autosaveTicks := uint64(tune.AutosaveSeasons * tune.SeasonLengthTicks)
	eng.OnTick = func(tick uint64) {
		if pending := k.ConsumePending(); len(pending) > 0 {
			if err := db.AppendEvents(pending); err != nil {
				slog.Warn("append events", "error", err)
			}
			srv.Publish(pending)
		}
		if autosaveTicks > 0 && tick%autosaveTicks == 0 {
			if err := db.SaveSlot(runSlot, k); err != nil {
				slog.Error("autosave failed", "error", err)
			}
			if err := db.SaveMeta("last_tick", strconv.FormatUint(tick, 10)); err != nil {
				slog.Error("autosave meta failed", "error", err)
			}
		}
	}

	srv.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("Settlement %s at tick %d. API: http://localhost:%d/api/v1/status\n",
		k.ID, k.Tick, runPort)
	fmt.Println("Running... (Ctrl+C to stop)")

	eng.Run()

	slog.Info("final checkpoint", "slot", runSlot, "tick", k.Tick)
	if err := db.Checkpoint(runSlot, k); err != nil {
		slog.Error("final checkpoint failed", "error", err)
	}
	return nil
}

// loadWorld resolves the starting state: an explicit state file wins, then
// the save slot, then a fresh clearing.
func loadWorld(db *persistence.DB) (*kingdom.State, error) {
	if runStateFile != "" {
		k, err := persistence.LoadStateFile(runStateFile)
		if err != nil {
			return nil, fmt.Errorf("load state file: %w", err)
		}
		slog.Info("state file loaded", "path", runStateFile, "world_id", k.ID, "tick", k.Tick)
		return k, nil
	}

	k, err := db.LoadSlot(runSlot)
	if err == nil {
		slog.Info("save slot loaded", "slot", runSlot, "world_id", k.ID, "tick", k.Tick)
		return k, nil
	}

	slog.Info("no saved settlement found, settling a new clearing", "slot", runSlot)
	return kingdom.New(), nil
}
