package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"amai/ast"
	"amai/lexer"
	"amai/token"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

// replCmd is an interactive session over Amai source. Since every top-level
// item must be a function definition (spec.md §4.1's root-level
// restriction), a session accumulates function definitions across inputs
// and recompiles the whole accumulated program on each submission — the
// same "recompile everything" approach the teacher's own compiled REPL
// documented and accepted, now applied to the analyzer+lowerer pipeline
// instead of the old byte-stream compiler.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive Amai session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive REPL session. Define one or more "func"s per
  submission; a "func main() -> T { ... }" is run immediately after it
  type-checks.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("Welcome to Amai!")

	var history strings.Builder
	var pending strings.Builder

	for {
		if pending.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}
		if strings.TrimSpace(line) == "exit" && pending.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if pending.Len() > 0 {
			pending.WriteString("\n")
		}
		pending.WriteString(line)

		tokens, lexErr := lexer.New(pending.String()).Scan()
		if lexErr != nil {
			fmt.Println(lexErr)
			pending.Reset()
			continue
		}
		if !isInputReady(tokens) {
			continue
		}

		candidate := history.String() + "\n" + pending.String()
		module, _, err := frontend("<repl>", candidate)
		if err != nil {
			fmt.Println(err)
			pending.Reset()
			continue
		}

		history.WriteString("\n")
		history.WriteString(pending.String())
		pending.Reset()

		hasMain := false
		for _, n := range module.Nodes {
			if fd := topLevelFunDef(n); fd != nil && fd.Name == "main" {
				hasMain = true
			}
		}
		if !hasMain {
			continue
		}

		m, mainID, err := lowerAndLink(module, false)
		if err != nil {
			fmt.Println(err)
			continue
		}
		result, err := runResult(m, mainID)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(result)
	}
}

// topLevelFunDef unwraps the optional trailing Semi a top-level FunDef may
// carry (mirrors lowerer.unwrapFunDef, kept separate since main can't
// import an internal helper from another package for a one-line check).
func topLevelFunDef(n ast.Node) *ast.FunDef {
	switch v := n.(type) {
	case *ast.FunDef:
		return v
	case *ast.Semi:
		return topLevelFunDef(v.Inner)
	default:
		return nil
	}
}

// isInputReady reports whether tokens contains no unclosed braces, so the
// REPL knows to keep buffering a multi-line function definition instead of
// submitting a truncated one.
func isInputReady(tokens []token.Token) bool {
	balance := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.LBRACE:
			balance++
		case token.RBRACE:
			balance--
		}
	}
	return balance <= 0
}
