package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brownbat/kingdom-clicker/internal/engine"
	"github.com/brownbat/kingdom-clicker/internal/kingdom"
	"github.com/brownbat/kingdom-clicker/internal/persistence"
	"github.com/brownbat/kingdom-clicker/internal/tuning"
)

var (
	headlessTicks     uint64
	headlessSeed      int64
	headlessStateFile string
	headlessScript    string
	headlessDBPath    string
	headlessSlot      string
	headlessOut       string
	headlessEvents    int
)

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Play a scripted batch run and print a report",
	Long: `Advances a settlement a fixed number of ticks as fast as possible,
applying actions from an optional YAML script along the way, then prints
a resource and event report with the final state digest.

The script maps tick numbers to action verbs; scheduled verbs apply just
before that tick runs:

    1:  [recruit_peasant, recruit_peasant]
    2:  [add_hunter]
    40: [build_lumber_mill]

The same seed and script always produce the same digest.`,
	RunE: runHeadless,
}

func init() {
	headlessCmd.Flags().Uint64Var(&headlessTicks, "ticks", 600, "ticks to simulate")
	headlessCmd.Flags().Int64Var(&headlessSeed, "seed", 0, "world seed (0 = random)")
	headlessCmd.Flags().StringVar(&headlessStateFile, "state", "", "start from a state file")
	headlessCmd.Flags().StringVar(&headlessScript, "script", "", "YAML action script (tick -> verbs)")
	headlessCmd.Flags().StringVar(&headlessDBPath, "db", "", "checkpoint the final state into this sqlite database")
	headlessCmd.Flags().StringVar(&headlessSlot, "slot", "headless", "save slot for --db")
	headlessCmd.Flags().StringVar(&headlessOut, "out", "", "export the final state as a compressed archive")
	headlessCmd.Flags().IntVar(&headlessEvents, "events", 12, "event lines to show in the report")
}

func runHeadless(cmd *cobra.Command, args []string) error {
	tune, err := tuning.Load(tuningPath)
	if err != nil {
		return err
	}

	k := kingdom.New()
	if headlessStateFile != "" {
		k, err = persistence.LoadStateFile(headlessStateFile)
		if err != nil {
			return fmt.Errorf("load state file: %w", err)
		}
	}

	script, err := loadScript(headlessScript)
	if err != nil {
		return err
	}

	sim := engine.NewSimulation(k, tune, headlessSeed)

	end := k.Tick + headlessTicks
	for k.Tick < end {
		for _, verb := range script[k.Tick+1] {
			applied, known := sim.Apply(verb)
			if !known {
				return fmt.Errorf("script tick %d: unknown verb %q", k.Tick+1, verb)
			}
			if !applied {
				color.Yellow("tick %d: %q rejected: %s", k.Tick+1, verb, k.LogText)
			}
		}
		sim.Step()
	}

	printReport(sim)

	if headlessDBPath != "" {
		db, err := persistence.Open(headlessDBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.RecordRun(sim.Rng.Seed(), tune.Digest()); err != nil {
			return fmt.Errorf("record run meta: %w", err)
		}
		if err := db.Checkpoint(headlessSlot, k); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
		fmt.Printf("\nsaved to %s slot %q\n", headlessDBPath, headlessSlot)
	}
	if headlessOut != "" {
		if err := persistence.WriteArchive(headlessOut, k); err != nil {
			return fmt.Errorf("export archive: %w", err)
		}
		fmt.Printf("exported %s\n", headlessOut)
	}
	return nil
}

// loadScript reads a tick -> verbs YAML map. An empty path is an empty
// script.
func loadScript(path string) (map[uint64][]string, error) {
	script := map[uint64][]string{}
	if path == "" {
		return script, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if err := yaml.Unmarshal(raw, &script); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return script, nil
}

func printReport(sim *engine.Simulation) {
	k := sim.K
	title := color.New(color.FgCyan, color.Bold)
	title.Printf("\n%s — tick %s, %s (season tick %d)\n",
		k.ID, humanize.Comma(int64(k.Tick)), engine.SeasonName(k.SeasonPhase), k.SeasonTick)
	fmt.Printf("population %d / %d   log: %s\n\n", k.Population(), k.PopCap(), k.LogText)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Stored", "Cap"}),
	)
	for _, name := range k.DisplayResources() {
		capText := "—"
		if cap, ok := k.Cap(name); ok {
			capText = humanize.FtoaWithDigits(cap, 0)
		}
		table.Append([]string{
			name,
			humanize.FtoaWithDigits(k.Stores[name], 1),
			capText,
		})
	}
	table.Render()

	if used := k.ReserveUsed(); used > 0 || k.ReserveCapacity > 0 {
		fmt.Printf("\ncellar reserve: %s / %s\n",
			humanize.FtoaWithDigits(used, 1),
			humanize.FtoaWithDigits(k.ReserveCapacity, 0))
		var names []string
		for name := range k.Reserve {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %s\n", name, humanize.FtoaWithDigits(k.Reserve[name], 1))
		}
	}

	fmt.Printf("\nworkforce: %d peasants, %d hunters, %d woodsmen, %d bowyers, %d weavers, %d rangers, %d tailors\n",
		k.Peasants, k.Hunters, k.Woodsmen, k.Bowyers, k.Weavers, k.Rangers, k.Tailors)
	fmt.Printf("buildings: %d houses, %d mills, %d farms, %d quarries, %d mines, %d smelters, %d smithies, %d tailor shops, %d cellars, %d warehouses\n",
		k.Houses, k.LumberMills, k.Farms, k.Quarries, k.Mines, k.Smelters,
		k.Smithies, k.TailorShops, k.Cellars, k.Warehouses)

	events := k.RecentEvents(headlessEvents)
	if len(events) > 0 {
		title.Printf("\nrecent events\n")
		for _, e := range events {
			fmt.Printf("  [%6d] %-10s %s\n", e.Tick, e.Category, e.Description)
		}
	}

	success := color.New(color.FgGreen, color.Bold)
	success.Printf("\ndigest %s\n", k.Digest())
}
