package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/washgo/washcore/coreerr"
	"github.com/washgo/washcore/gfxil"
)

func newHeadlessCmd() *cobra.Command {
	var biosPath string
	var entry uint32
	var timeslices int

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "run a fixed number of timeslices against a null GFX-IL backend, for CI/testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("config loaded")

			m := NewMachine(cfg)

			if biosPath != "" {
				img, err := os.ReadFile(biosPath)
				if err != nil {
					return coreerr.Wrap(coreerr.IO, "washcore", "reading BIOS image", err)
				}
				for i, b := range img {
					if err := m.Bus.Write8(0x80000000+uint32(i), b); err != nil {
						return coreerr.Wrap(coreerr.IO, "washcore", "loading BIOS into RAM", err)
					}
				}
			}
			m.CPU.Regs.PC = entry

			sink := gfxil.NewNullBackend()
			if err := m.RunTimeslices(timeslices, sink); err != nil {
				return err
			}
			log.Info().
				Int("timeslices", timeslices).
				Int64("clock_stamp", m.Clk.Stamp()).
				Int("draws_recorded", len(sink.Draws)).
				Msg("headless run complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&biosPath, "bios", "", "optional BIOS/IP.BIN image to load before running")
	cmd.Flags().Uint32Var(&entry, "entry", 0x80000000, "guest address to set PC to before running")
	cmd.Flags().IntVar(&timeslices, "timeslices", 400, "number of scheduler timeslices to run")
	return cmd
}
