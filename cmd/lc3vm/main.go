// Command lc3vm loads one or more LC-3 object images and runs them.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bassosimone/lc3vm/internal/cpu"
	"github.com/bassosimone/lc3vm/internal/loader"
	"github.com/bassosimone/lc3vm/internal/mem"
	"github.com/bassosimone/lc3vm/internal/term"
	"github.com/bassosimone/lc3vm/internal/trap"
)

// errUsage marks the "no image given" case so main can map it to exit
// code 2, as opposed to the generic exit code 1 for everything else.
var errUsage = errors.New("usage: lc3vm <image> [image...]")

func main() {
	log.SetFlags(0)

	var verbose, debug bool

	root := &cobra.Command{
		Use:   "lc3vm <image> [image...]",
		Short: "Run one or more LC-3 object images",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, verbose, debug)
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace each fetched instruction")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "single-step, pausing for Enter between instructions")

	if err := root.Execute(); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, errUsage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads every image in paths, puts the terminal into raw mode, and
// drives the fetch-decode-execute loop until a HALT trap or a fatal error.
func run(paths []string, verbose, debug bool) error {
	m := mem.New()
	for _, p := range paths {
		if err := loadImage(p, m); err != nil {
			return err
		}
	}

	tm := term.New()
	if err := tm.EnableRawMode(); err != nil {
		return fmt.Errorf("lc3vm: enabling raw mode: %w", err)
	}
	defer tm.Restore()
	m.SetInputPoller(tm)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	machine := cpu.NewMachine(m)
	machine.Trap = func(mm *cpu.Machine, vector uint16) error {
		return trap.Dispatch(mm, vector, tm, out)
	}

	stop := installInterruptHandler(tm)
	defer stop()

	for {
		word, instr, err := stepAndTrace(machine, verbose, debug)
		if err != nil {
			if errors.Is(err, cpu.ErrHalt) {
				return nil
			}
			return fmt.Errorf("lc3vm: %w (pc=0x%04X, instr=0x%04X %s)",
				err, machine.Reg.PC-1, word, instr)
		}
	}
}

// stepAndTrace executes a single instruction, optionally logging its
// disassembly and register state first (-v) and pausing for the user (-d).
func stepAndTrace(m *cpu.Machine, verbose, debug bool) (uint16, cpu.Instruction, error) {
	pc := m.Reg.PC
	word := m.Fetch()
	instr := cpu.Decode(word)
	if verbose {
		log.Printf("lc3vm: pc=0x%04X instr=0x%04X %s", pc, word, instr)
		log.Printf("lc3vm: regs=%+v cond=%v", m.Reg.R, m.Reg.Cond)
	}
	if debug {
		log.Print("lc3vm: paused, press Enter to continue...")
		fmt.Scanln()
	}
	return word, instr, m.Execute(instr)
}

func loadImage(path string, m *mem.Memory) error {
	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("lc3vm: %w", err)
	}
	defer fp.Close()
	if err := loader.Load(fp, m); err != nil {
		return fmt.Errorf("lc3vm: %s: %w", path, err)
	}
	return nil
}

// installInterruptHandler restores the terminal and exits on the first
// os.Interrupt, since mid-instruction cancellation is never observed by the
// guest: the fetch-execute loop only stops between instructions, but a
// blocked GETC/IN read needs the signal to break it out.
func installInterruptHandler(tm term.Terminal) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			_ = tm.Restore()
			fmt.Println()
			os.Exit(1)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
