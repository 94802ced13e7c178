/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/gopkg/util/logger"
	"github.com/cloudwego/regalloc"
	"github.com/cloudwego/regalloc/internal/desc"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "0.1.0"

// choice is a string flag restricted to a fixed set of values.
type choice struct {
	val  string
	opts []string
}

var _ pflag.Value = (*choice)(nil)

func newChoice(def string, opts ...string) *choice {
	return &choice{val: def, opts: opts}
}

func (c *choice) String() string { return c.val }
func (c *choice) Type() string   { return strings.Join(c.opts, "|") }

func (c *choice) Set(v string) error {
	for _, o := range c.opts {
		if o == v {
			c.val = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", c.Type())
}

// config holds the command line flags of one invocation.
type config struct {
	target  *choice
	output  *choice
	regs    int
	verify  bool
	debug   bool
	dump    bool
	rounds  int
	collect int
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "regalloc: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	cfg := &config{
		target: newChoice("generic", "generic", "amd64"),
		output: newChoice("text", "text", "yaml"),
	}

	rootCmd := &cobra.Command{
		Use:   "regalloc [file.yaml]",
		Short: "regalloc assigns registers to the virtual registers of a function",
		Long: `regalloc reads a YAML function description (basic blocks and the live
intervals of virtual registers), runs the greedy register allocator on it
and prints where every virtual register ended up. The description is read
from standard input when no file is given.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return allocate(cmd.InOrStdin(), cfg, out, errOut)
			}

			fp, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fp.Close()
			return allocate(fp, cfg, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().VarP(cfg.target, "target", "t", "Register file to allocate for")
	rootCmd.Flags().IntVarP(&cfg.regs, "regs", "n", 4, "Number of registers of the generic target")
	rootCmd.Flags().VarP(cfg.output, "output", "o", "Output format")
	rootCmd.Flags().BoolVar(&cfg.verify, "verify", false, "Verify the allocation")
	rootCmd.Flags().BoolVar(&cfg.debug, "debug", false, "Print allocator traces to stderr")
	rootCmd.Flags().BoolVar(&cfg.dump, "dump", false, "Dump the raw allocation result")
	rootCmd.Flags().IntVar(&cfg.rounds, "solver-rounds", 0, "Spill placement solver sweeps (0 for the default)")
	rootCmd.Flags().IntVar(&cfg.collect, "collect-limit", -1, "Interferers enumerated per register (-1 for the default)")

	return rootCmd
}

// newTarget creates the register file selected by the flags
func newTarget(cfg *config) (*regalloc.File, error) {
	switch cfg.target.val {
	case "amd64":
		return regalloc.AMD64(), nil
	default:
		if cfg.regs <= 0 {
			return nil, fmt.Errorf("invalid register count %d", cfg.regs)
		}
		return regalloc.Generic(cfg.regs), nil
	}
}

// options converts the flags into allocator options
func options(cfg *config, errOut io.Writer) []regalloc.Option {
	ret := []regalloc.Option{regalloc.WithVerify(cfg.verify)}

	// Route the package-level logger to errOut
	if cfg.debug {
		logger.SetOutput(errOut)
		logger.SetLevel(logger.LevelDebug)
		ret = append(ret, regalloc.WithDebug(true))
	}

	if cfg.rounds > 0 {
		ret = append(ret, regalloc.WithSolverRounds(cfg.rounds))
	}
	if cfg.collect >= 0 {
		ret = append(ret, regalloc.WithCollectLimit(cfg.collect))
	}
	return ret
}

func allocate(r io.Reader, cfg *config, out, errOut io.Writer) error {
	tgt, err := newTarget(cfg)
	if err != nil {
		return err
	}

	fn, err := regalloc.Load(r, tgt)
	if err != nil {
		return err
	}

	res := regalloc.Allocate(fn, options(cfg, errOut)...)
	if cfg.dump {
		dumper := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
		dumper.Fdump(out, res)
		return nil
	}

	rep := desc.NewReport(res, tgt)
	switch cfg.output.val {
	case "yaml":
		return rep.EncodeYAML(out)
	default:
		return rep.EncodeText(out)
	}
}
