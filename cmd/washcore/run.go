package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/washgo/washcore/coreerr"
)

func newRunCmd() *cobra.Command {
	var biosPath string
	var entry uint32

	cmd := &cobra.Command{
		Use:   "run",
		Short: "load a BIOS image into RAM and run it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("config loaded")

			m := NewMachine(cfg)

			img, err := os.ReadFile(biosPath)
			if err != nil {
				return coreerr.Wrap(coreerr.IO, "washcore", "reading BIOS image", err)
			}
			for i, b := range img {
				if err := m.Bus.Write8(0x80000000+uint32(i), b); err != nil {
					return coreerr.Wrap(coreerr.IO, "washcore", "loading BIOS into RAM", err)
				}
			}
			m.CPU.Regs.PC = entry

			log.Info().Str("bios", biosPath).Uint32("entry", entry).Msg("starting execution")
			for {
				if m.Joystick != nil {
					m.Joystick.Poll()
				}
				if _, err := m.CPU.RunTimeslice(); err != nil {
					return err
				}
				for m.GFXQueue.Len() > 0 {
					m.GFXQueue.Pop()
				}
			}
		},
	}
	cmd.Flags().StringVar(&biosPath, "bios", "", "path to a flat BIOS/IP.BIN image to load at the P1 RAM window")
	cmd.Flags().Uint32Var(&entry, "entry", 0x80000000, "guest address to set PC to before running")
	cmd.MarkFlagRequired("bios")
	return cmd
}
