package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/brownbat/kingdom-clicker/internal/engine"
	"github.com/brownbat/kingdom-clicker/internal/kingdom"
	"github.com/brownbat/kingdom-clicker/internal/persistence"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Summarize a state file or exported archive",
	Long: `Reads a JSON state file or a compressed archive, validates it, and
prints the settlement summary and digest without running any ticks.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	var k *kingdom.State
	if strings.HasSuffix(path, ".kcz") {
		loaded, header, err := persistence.ReadArchive(path)
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
		fmt.Printf("archive v%d: world %s at tick %d\n", header.Version, header.WorldID, header.Tick)
		k = loaded
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := persistence.ValidateStateFile(data); err != nil {
			return fmt.Errorf("invalid state file: %w", err)
		}
		k, err = kingdom.Restore(data)
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}

	title := color.New(color.FgCyan, color.Bold)
	title.Printf("%s\n", k.ID)
	fmt.Printf("tick %d, %s\n", k.Tick, engine.SeasonName(k.SeasonPhase))
	fmt.Printf("population %d / %d\n", k.Population(), k.PopCap())
	fmt.Printf("log: %s\n", k.LogText)
	fmt.Printf("digest %s\n", k.Digest())
	return nil
}
