package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"amai/vm"

	"github.com/google/subcommands"
)

// emitBytecodeCmd lexes, parses, analyzes, and lowers a source file, then
// prints the disassembly of every function it defines.
type emitBytecodeCmd struct {
	allowLargeBytecode bool
}

func (*emitBytecodeCmd) Name() string { return "emit-bytecode" }
func (*emitBytecodeCmd) Synopsis() string {
	return "Emit the human-readable disassembly of a source file's lowered bytecode"
}
func (*emitBytecodeCmd) Usage() string {
	return `emit-bytecode <file>`
}

func (cmd *emitBytecodeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.allowLargeBytecode, "allow-large-bytecode", false,
		"skip the jump-bounds check on lowered functions")
}

func (cmd *emitBytecodeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	module, _, err := frontend(filename, string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	m, _, err := lowerAndLink(module, cmd.allowLargeBytecode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, fn := range m.Functions {
		fmt.Printf("function %s (arity %d):\n", fn.Name, fn.Arity)
		fmt.Print(vm.Disassemble(fn))
		fmt.Println()
	}

	return subcommands.ExitSuccess
}
