package main

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"simasm/pkg/asm"
	"simasm/pkg/diag"
	"simasm/pkg/grid"
	"simasm/pkg/utils"
)

type cliOptions struct {
	out     string
	hex     bool
	listing bool
	dump    bool
	quiet   bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "simasm sourceFile",
		Short: "Two-pass assembler for the SimuS 8-bit accumulator machine",
		Long: `Simasm translates one SimuS assembly source file into a 256-byte memory
image. Labels may be used before they are defined. Diagnostics are printed
with the offending line and a marker under the faulty span; any error
leaves the output file untouched.`,

		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "", "output binary file path (default: input with .bin extension)")
	f.BoolVar(&opts.hex, "hex", false, "print a hex dump of the memory image")
	f.BoolVar(&opts.listing, "listing", false, "write a listing next to the output file (.lst)")
	f.BoolVar(&opts.dump, "dump", false, "dump the symbol table and statements")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "only print diagnostics")
	return cmd
}

func run(stdout, stderr io.Writer, inPath string, opts *cliOptions) error {
	_, src, err := utils.ReadSource(inPath)
	if err != nil {
		return fmt.Errorf("failed to read input file %q: %w", inPath, err)
	}

	res, err := asm.Compile(src, nil)
	if rerr := diag.Render(stderr, inPath, res.Lines, res.Diagnostics); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}

	output := opts.out
	if output == "" {
		output = utils.ReplaceExt(inPath, ".bin")
	}
	if err := utils.WriteBinary(output, res.Image.Bytes()); err != nil {
		return fmt.Errorf("failed to write binary file %q: %w", output, err)
	}
	if !opts.quiet {
		fmt.Fprintf(stdout, "assembled %d bytes -> %s\n", res.Image.Used(), output)
		if entry, ok := res.Image.Entry(); ok {
			fmt.Fprintf(stdout, "entry point 0x%02X\n", entry)
		}
	}

	if opts.listing {
		lst := utils.ReplaceExt(output, ".lst")
		f, err := os.Create(lst)
		if err != nil {
			return fmt.Errorf("failed to create listing %q: %w", lst, err)
		}
		werr := res.WriteListing(f)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("failed to write listing %q: %w", lst, werr)
		}
	}

	if opts.hex {
		for _, line := range grid.HexDump(res.Image.Bytes(), 16, res.Image.Written) {
			fmt.Fprintln(stdout, line)
		}
	}

	if opts.dump {
		fmt.Fprint(stdout, res.Symbols.String())
		pp.Fprintln(stdout, res.Symbols.Symbols())
		for _, st := range res.Statements {
			pp.Fprintf(stdout, "%02X %v\n", st.Address, st.String())
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
