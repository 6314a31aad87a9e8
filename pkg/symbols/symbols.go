// Package symbols loads handler symbol tables from YAML files.
//
// A symbol file binds references to expressions:
//
//	actions:
//	  game.World::seed: "42"
//	  game.Chat::say: 'len(args.message) > 0 ? 1 : 0'
//	guards:
//	  game.Perms::operator: 'source == "console"'
//
// Expressions use the expr language and see three variables: source (the
// command source), input (the raw command line) and args (parsed argument
// values by node name). Guards must evaluate to a bool and actions to an
// int. Evaluation errors deny the guard or make the action return 0.
package symbols

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/CliForge/cmdgrammar/pkg/handler"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// File is a parsed symbol file.
type File struct {
	Actions map[string]string `yaml:"actions"`
	Guards  map[string]string `yaml:"guards"`
}

// CompileError reports an expression that failed to compile.
type CompileError struct {
	Reference string
	Err       error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("symbol '%s': %v", e.Reference, e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Parse parses a symbol file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse symbol file: %w", err)
	}
	return &f, nil
}

// ReadFile reads and parses the symbol file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read symbol file: %w", err)
	}
	return Parse(data)
}

// Load reads the symbol file at path and compiles it into a new table.
func Load(path string, logger *slog.Logger) (*handler.SymbolTable, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	table := handler.NewSymbolTable()
	if err := f.Define(table, logger); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Define compiles every expression in f and binds it in table. All compile
// errors are reported together; nothing is bound when any expression fails.
func (f *File) Define(table *handler.SymbolTable, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var (
		errs     []error
		refs     []string
		bindings = make(map[string]interface{})
	)

	for _, ref := range sortedKeys(f.Actions) {
		program, err := expr.Compile(f.Actions[ref], expr.Env(Env{}), expr.AsInt())
		if err != nil {
			errs = append(errs, &CompileError{Reference: ref, Err: err})
			continue
		}
		refs = append(refs, ref)
		bindings[ref] = actionFunc(ref, program, logger)
	}

	for _, ref := range sortedKeys(f.Guards) {
		if _, ok := f.Actions[ref]; ok {
			errs = append(errs, &CompileError{Reference: ref, Err: errors.New("defined as both action and guard")})
			continue
		}
		program, err := expr.Compile(f.Guards[ref], expr.Env(Env{}), expr.AsBool())
		if err != nil {
			errs = append(errs, &CompileError{Reference: ref, Err: err})
			continue
		}
		refs = append(refs, ref)
		bindings[ref] = guardFunc(ref, program, logger)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, ref := range refs {
		if err := table.Define(ref, bindings[ref]); err != nil {
			return err
		}
	}
	return nil
}

func actionFunc(ref string, program *vm.Program, logger *slog.Logger) tree.ActionFunc {
	return func(ctx *tree.Context) int {
		out, err := expr.Run(program, environment(ctx))
		if err != nil {
			logger.Warn("action expression failed", "reference", ref, "error", err)
			return 0
		}
		n, ok := out.(int)
		if !ok {
			logger.Warn("action expression did not return an int", "reference", ref, "result", out)
			return 0
		}
		return n
	}
}

func guardFunc(ref string, program *vm.Program, logger *slog.Logger) tree.GuardFunc {
	return func(ctx *tree.Context) bool {
		out, err := expr.Run(program, environment(ctx))
		if err != nil {
			logger.Warn("guard expression failed", "reference", ref, "error", err)
			return false
		}
		allowed, _ := out.(bool)
		return allowed
	}
}

// Env holds the variables visible to symbol expressions.
type Env struct {
	Source    interface{}            `expr:"source"`
	Input     string                 `expr:"input"`
	Arguments map[string]interface{} `expr:"args"`
}

func environment(ctx *tree.Context) Env {
	env := Env{Arguments: map[string]interface{}{}}
	if ctx == nil {
		return env
	}
	env.Source = ctx.Source
	env.Input = ctx.Input
	if ctx.Arguments != nil {
		env.Arguments = ctx.Arguments
	}
	return env
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
