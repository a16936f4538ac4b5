package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dspbptk/dspbptk-go/pkg/blueprint"
	"github.com/dspbptk/dspbptk-go/pkg/bplog"
)

func runInspect(cmd *cobra.Command, args []string) error {
	logger, flush := bplog.NewLogger("dspbptk", logLevel, os.Stderr)
	defer flush()

	path := args[0]
	bp, err := blueprint.ReadFromFileWithLogger(path, validate, logger)
	if err != nil {
		logger.Error("failed to parse blueprint", "path", path, "error", err)
		return err
	}

	fmt.Printf("game version:  %s\n", bp.GameVersion)
	fmt.Printf("timestamp:     %s\n", bp.Timestamp().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("short desc:    %s\n", bp.ShortDesc)
	fmt.Printf("long desc:     %s\n", bp.LongDesc)
	fmt.Printf("areas:         %d\n", len(bp.Payload.Areas))
	fmt.Printf("buildings:     %d\n", len(bp.Payload.Buildings))

	counts := make(map[uint16]int)
	for _, b := range bp.Payload.Buildings {
		counts[b.ItemID]++
	}
	ids := make([]uint16, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Println("item histogram:")
	for _, id := range ids {
		fmt.Printf("  %-20s x%d\n", blueprint.FormatItemName(nil, id), counts[id])
	}

	return nil
}
