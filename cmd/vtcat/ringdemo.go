package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phroun/vtcore/ring"
)

func newRingDemoCmd() *cobra.Command {
	var count, capacity int

	cmd := &cobra.Command{
		Use:   "ring-demo",
		Short: "Feed synthetic rows through a ring.Ring and show the result of eviction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRingDemo(count, capacity)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of synthetic rows to append")
	cmd.Flags().IntVar(&capacity, "cap", 8, "ring capacity")
	return cmd
}

func runRingDemo(count, capacity int) error {
	var evicted []string
	r := ring.New[string](capacity, func(s string) {
		evicted = append(evicted, s)
	})

	for i := 0; i < count; i++ {
		r.Append(fmt.Sprintf("row-%d", i))
		logger.Debug().Int("i", i).Msg("appended")
	}

	fmt.Printf("delta=%d length=%d max=%d evicted=%d\n", r.Delta(), r.Length(), r.Max(), len(evicted))
	fmt.Println("live window:")
	for p := r.Delta(); p < r.Next(); p++ {
		fmt.Printf("  [%d] %s\n", p, r.Index(p))
	}

	return nil
}
