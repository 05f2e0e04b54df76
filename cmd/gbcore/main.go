package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/thelolagemann/gbcore/internal/debugger"
	"github.com/thelolagemann/gbcore/internal/machine"
	"github.com/thelolagemann/gbcore/internal/opcodes"
	"github.com/thelolagemann/gbcore/internal/stats"
	"github.com/thelolagemann/gbcore/pkg/log"
	"github.com/thelolagemann/gbcore/pkg/statsview"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gbcore",
		Short:        "SM83 instruction core with a breakpoint debugger",
		SilenceUsage: true,
	}

	var tablePath string
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "Opcode table (JSON or YAML), defaults to the embedded table")

	// run command
	var (
		debug     bool
		breaks    []string
		remote    string
		maxSteps  uint64
		histogram string
		stateIn   string
		stateOut  string
		verbose   bool
		statsView bool
		serialOut bool
		swBreak   bool
	)
	runCmd := &cobra.Command{
		Use:   "run [program]",
		Short: "Load a program at address 0 and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(verbose)

			program, err := utils.LoadFile(args[0])
			if err != nil {
				return err
			}
			table, err := loadTable(tablePath)
			if err != nil {
				return err
			}

			opts := []machine.Opt{
				machine.WithLogger(logger),
				machine.WithTable(table),
				machine.MaxSteps(maxSteps),
			}
			for _, b := range breaks {
				addr, err := utils.ParseUint[uint16](b)
				if err != nil {
					return fmt.Errorf("invalid breakpoint %q: %w", b, err)
				}
				opts = append(opts, machine.WithBreakpoints(addr))
			}
			if debug {
				opts = append(opts, machine.Debug())
			}
			if swBreak {
				opts = append(opts, machine.SoftwareBreakpoint())
			}
			if serialOut {
				opts = append(opts, machine.WithSerialOutput(cmd.OutOrStdout()))
			}
			if remote != "" {
				if !debug && len(breaks) == 0 {
					logger.Infof("no breakpoints given, pausing until a remote client continues")
				}
				r := debugger.NewRemote(remote, logger)
				if err := r.Start(); err != nil {
					return err
				}
				defer r.Close()
				opts = append(opts, machine.WithCommandSource(r))
			}
			var h *stats.Histogram
			if histogram != "" {
				h = stats.NewHistogram()
				opts = append(opts, machine.WithHistogram(h))
			}
			if statsView {
				stop := statsview.Launch(cmd.OutOrStdout(), "")
				defer stop()
			}

			m := machine.New(program, opts...)
			if stateIn != "" {
				if err := m.LoadStateFile(stateIn); err != nil {
					return err
				}
				logger.Infof("resumed from %s at 0x%04X", stateIn, m.CPU.PC)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			runErr := m.Run(ctx)
			logger.Infof("%s after %d instructions", m.Status(), m.Steps())

			if h != nil {
				fmt.Fprint(cmd.OutOrStdout(), h.String())
				if err := h.SavePNG(histogram); err != nil {
					return err
				}
			}
			if stateOut != "" {
				if err := m.SaveStateFile(stateOut); err != nil {
					return err
				}
				logger.Infof("saved state to %s", stateOut)
			}
			// an interrupted run still exits cleanly
			if m.Status().IsErrored() {
				return runErr
			}
			return nil
		},
	}
	runCmd.Flags().BoolVar(&debug, "debug", false, "Pause before the first instruction")
	runCmd.Flags().StringArrayVarP(&breaks, "break", "b", nil, "Breakpoint address (repeatable)")
	runCmd.Flags().StringVar(&remote, "remote", "", "Serve the debugger over a websocket on this address")
	runCmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "Stop after this many instructions (0 = no limit)")
	runCmd.Flags().StringVar(&histogram, "histogram", "", "Write an instruction histogram PNG to this file")
	runCmd.Flags().StringVar(&stateIn, "state-in", "", "Resume from a saved state")
	runCmd.Flags().StringVar(&stateOut, "state-out", "", "Save the state when the run stops")
	runCmd.Flags().BoolVar(&swBreak, "software-break", false, "Stop when the program executes LD B,B")
	runCmd.Flags().BoolVar(&serialOut, "serial", false, "Print bytes the program sends over the serial port")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	runCmd.Flags().BoolVar(&statsView, "statsview", false, "Serve runtime statistics on "+statsview.Address)

	// disasm command
	var origin string
	disasmCmd := &cobra.Command{
		Use:   "disasm [program]",
		Short: "Disassemble a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := utils.LoadFile(args[0])
			if err != nil {
				return err
			}
			table, err := loadTable(tablePath)
			if err != nil {
				return err
			}
			start, err := utils.ParseUint[uint16](origin)
			if err != nil {
				return fmt.Errorf("invalid origin %q: %w", origin, err)
			}

			lines, err := opcodes.Disassemble(table, program, start)
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return err
		},
	}
	disasmCmd.Flags().StringVar(&origin, "origin", "0x0000", "Address of the first byte")

	// table command
	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "Print the checksum and size of the opcode table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(tablePath)
			if err != nil {
				return err
			}
			primary, secondary := table.Len()
			fmt.Fprintf(cmd.OutOrStdout(), "checksum %016x\nprimary %d\nsecondary %d\n", table.Checksum(), primary, secondary)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, disasmCmd, tableCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadTable(path string) (*opcodes.Table, error) {
	if path == "" {
		return opcodes.Default(), nil
	}
	return opcodes.LoadFile(path)
}
