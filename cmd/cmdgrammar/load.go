package main

import (
	"fmt"

	"github.com/CliForge/cmdgrammar/internal/logging"
	"github.com/CliForge/cmdgrammar/pkg/grammar"
	"github.com/CliForge/cmdgrammar/pkg/handler"
	"github.com/CliForge/cmdgrammar/pkg/symbols"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// loaded is a decoded grammar file.
type loaded struct {
	path     string
	root     bool
	commands []*tree.Node
	diags    []*tree.Diagnostic
}

// newResolver builds a resolver over the symbol file at symbolsPath. Without
// a symbol file every reference is a fallback, which is expected, so the
// resolver stays quiet and only collects diagnostics.
func (a *app) newResolver(symbolsPath string, diags *[]*tree.Diagnostic) (*handler.Resolver, error) {
	cfg := &handler.ResolverConfig{
		Logger: logging.Discard(),
		OnDiagnostic: func(d *tree.Diagnostic) {
			*diags = append(*diags, d)
		},
	}

	if symbolsPath == "" {
		return handler.NewResolver(nil, cfg), nil
	}

	table, err := symbols.Load(symbolsPath, a.logger)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("symbols loaded", "path", symbolsPath, "count", table.Len())

	cfg.Logger = a.logger
	return handler.NewResolver(table, cfg), nil
}

// load reads and decodes the grammar file at path. Dispatcher root
// documents yield one node per command.
func (a *app) load(path, symbolsPath string) (*loaded, error) {
	doc, err := grammar.ReadFile(path)
	if err != nil {
		return nil, err
	}

	l := &loaded{path: path, root: doc.IsRoot()}

	resolver, err := a.newResolver(symbolsPath, &l.diags)
	if err != nil {
		return nil, err
	}
	dec := grammar.NewDecoder(a.registry, resolver)

	if l.root {
		l.commands, err = dec.DecodeRoot(doc)
	} else {
		var n *tree.Node
		n, err = dec.DecodeNode(doc)
		l.commands = []*tree.Node{n}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.logger.Debug("grammar decoded", "path", path, "commands", len(l.commands), "unresolved", len(l.diags))
	return l, nil
}

// encode converts l back into a document of the same shape.
func (a *app) encode(l *loaded) (*grammar.Node, error) {
	enc := grammar.NewEncoder(a.registry)
	if l.root {
		return enc.EncodeRoot(l.commands)
	}
	return enc.Encode(l.commands[0])
}

// nodes returns the decoded tree in the form the tree formatter expects.
func (l *loaded) nodes() interface{} {
	if l.root {
		return l.commands
	}
	return l.commands[0]
}

func (l *loaded) count() int {
	n := 0
	for _, c := range l.commands {
		n += tree.Count(c)
	}
	return n
}
