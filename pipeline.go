package main

import (
	"fmt"

	"amai/analyzer"
	"amai/ast"
	"amai/diag"
	"amai/lexer"
	"amai/lowerer"
	"amai/parser"
	"amai/token"
	"amai/value"
	"amai/vm"
)

// frontend runs the lexer, parser, and analyzer over src, in that order,
// stopping at the first stage that reports errors. It's shared by every
// subcommand that needs a checked AST (run, check, emit-bytecode, repl).
func frontend(path, src string) (*ast.Module, []token.Token, error) {
	lex := lexer.New(src)
	tokens, err := lex.Scan()
	if err != nil {
		return nil, nil, fmt.Errorf("lexing error: %w", err)
	}

	p := parser.Make(tokens)
	module, errs := p.Parse(path)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, tokens, fmt.Errorf("parse errors:\n%s", joinLines(msgs))
	}

	diags := analyzer.New(path).Validate(module)
	if len(diags) > 0 {
		return nil, tokens, fmt.Errorf("semantic errors:\n%s", diag.Join(diags))
	}

	return module, tokens, nil
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// lowerAndLink lowers a checked module and links it into a fresh VM,
// returning the VM and the function id of its "main" entry point.
func lowerAndLink(module *ast.Module, allowLargeBytecode bool) (*vm.VM, int, error) {
	functions, constants, err := lowerer.New().Lower(module)
	if err != nil {
		return nil, 0, fmt.Errorf("lowering error: %w", err)
	}

	m := vm.New(constants, allowLargeBytecode)
	mainID := -1
	for _, fn := range functions {
		id, err := m.AddFunction(fn)
		if err != nil {
			return nil, 0, fmt.Errorf("linking error: %w", err)
		}
		if fn.Name == "main" {
			mainID = id
		}
	}
	if mainID == -1 {
		return nil, 0, fmt.Errorf("no main function defined")
	}
	return m, mainID, nil
}

// runResult executes entry to completion and returns the value it left in
// its own R0, per the calling convention's result-handoff register.
func runResult(m *vm.VM, entry int) (value.Value, error) {
	m.CallFunction(entry)
	if err := m.Run(); err != nil {
		return value.Nil(), err
	}
	return m.Frames[0].Registers[0], nil
}
