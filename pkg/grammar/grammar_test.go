package grammar

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CliForge/cmdgrammar/pkg/argcodec"
	"github.com/CliForge/cmdgrammar/pkg/handler"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

func newTestSymbols(t *testing.T) *handler.SymbolTable {
	t.Helper()
	table := handler.NewSymbolTable()
	require.NoError(t, table.DefineAction("pkg.Cmd::run", func(*tree.Context) int { return 1 }))
	require.NoError(t, table.DefineAction("pkg.Cmd::list", func(*tree.Context) int { return 2 }))
	require.NoError(t, table.DefineGuard("pkg.Perms::operator", func(ctx *tree.Context) bool {
		return ctx.Source == "op"
	}))
	require.NoError(t, table.DefineAction("game.Teleport::toCoordinates", func(*tree.Context) int { return 1 }))
	require.NoError(t, table.DefineAction("game.Chat::say", func(*tree.Context) int { return 1 }))
	require.NoError(t, table.DefineAction("game.World::seed", func(*tree.Context) int { return 1 }))
	require.NoError(t, table.DefineGuard("game.Perms::operator", func(*tree.Context) bool { return true }))
	return table
}

func newTestDecoder(t *testing.T, diags *[]*tree.Diagnostic) *Decoder {
	t.Helper()
	resolver := handler.NewResolver(newTestSymbols(t), &handler.ResolverConfig{
		OnDiagnostic: func(d *tree.Diagnostic) {
			if diags != nil {
				*diags = append(*diags, d)
			}
		},
	})
	return NewDecoder(nil, resolver)
}

func sampleTree(t *testing.T) *tree.Node {
	t.Helper()
	symbols := newTestSymbols(t)
	resolver := handler.NewResolver(symbols, nil)

	return tree.Literal("admin").
		Requires(resolver.ResolveGuard("pkg.Perms::operator")).
		Then(tree.Literal("list").Executes(resolver.ResolveAction("pkg.Cmd::list"))).
		Then(tree.Argument("count", tree.IntegerRange(0, 64)).
			Then(tree.Argument("limit", tree.LongRange(-9007199254740993, math.MaxInt64)).
				Then(tree.Argument("ratio", tree.DoubleMin(0.25)).
					Then(tree.Argument("scale", tree.FloatRange(-1.5, 2.5)).
						Then(tree.Argument("enabled", tree.Bool()).
							Executes(resolver.ResolveAction("pkg.Cmd::run"))))))).
		Then(tree.Argument("target", tree.Word()).
			Then(tree.Argument("reason", tree.Greedy()).Executes(resolver.ResolveAction("pkg.Cmd::run")))).
		Then(tree.Argument("quoted", tree.String())).
		MustBuild()
}

func TestEndToEndExample(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "example.json"))
	require.NoError(t, err)

	doc, err := ReadFile(filepath.Join("testdata", "example.json"))
	require.NoError(t, err)

	var diags []*tree.Diagnostic
	root, err := newTestDecoder(t, &diags).DecodeNode(doc)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, "test", root.Name())
	assert.True(t, root.IsLiteral())
	require.Len(t, root.Children(), 1)

	value := root.Children()[0]
	assert.Equal(t, "value", value.Name())
	assert.Equal(t, tree.KindArgument, value.Kind())
	assert.Equal(t, tree.IntegerRange(0, 1), value.Spec())
	require.NotNil(t, value.Action())
	assert.False(t, value.Action().Fallback())
	assert.Equal(t, 1, value.Action().Run(&tree.Context{}))

	out, err := NewEncoder(nil).Encode(root)
	require.NoError(t, err)
	data, err := MarshalJSON(out, 2)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(data))
}

func TestRoundTrip(t *testing.T) {
	original := sampleTree(t)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			doc, err := NewEncoder(nil).Encode(original)
			require.NoError(t, err)

			data, err := Marshal(doc, format, 2)
			require.NoError(t, err)

			parsed, err := Parse(data, format)
			require.NoError(t, err)

			var diags []*tree.Diagnostic
			decoded, err := newTestDecoder(t, &diags).DecodeNode(parsed)
			require.NoError(t, err)
			assert.Empty(t, diags)

			assert.True(t, tree.Equal(original, decoded), "round trip changed the tree")

			again, err := NewEncoder(nil).Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, doc, again)
		})
	}
}

func TestEncode_DocumentShape(t *testing.T) {
	root := tree.Literal("cmd").
		Then(tree.Argument("flag", tree.Bool())).
		Then(tree.Argument("text", tree.String())).
		Then(tree.Argument("n", tree.Integer())).
		MustBuild()

	doc, err := NewEncoder(nil).Encode(root)
	require.NoError(t, err)

	data, err := MarshalJSON(doc, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "cmd",
		"argument": {"type": "namespace:literal"},
		"children": [
			{"name": "flag", "argument": {"type": "boolean"}},
			{"name": "text", "argument": {"type": "string", "string_type": "string"}},
			{"name": "n", "argument": {"type": "integer"}}
		]
	}`, string(data))
}

func TestEncode_Errors(t *testing.T) {
	t.Run("nil node", func(t *testing.T) {
		_, err := NewEncoder(nil).Encode(nil)
		assert.Error(t, err)
	})

	t.Run("unregistered type", func(t *testing.T) {
		root := tree.Literal("give").
			Then(tree.Argument("pos", coordinateArg{})).
			MustBuild()

		_, err := NewEncoder(nil).Encode(root)
		require.Error(t, err)

		var unknown *argcodec.UnknownTypeError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "coordinate", unknown.Type)

		var nodeErr *NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "give/pos", nodeErr.Path)
	})

	t.Run("reserved type", func(t *testing.T) {
		root := tree.Argument("bad", reservedArg{}).MustBuild()
		_, err := NewEncoder(nil).Encode(root)
		assert.Error(t, err)
	})
}

func TestDecode_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
		path  string
	}{
		{
			name:  "missing name",
			doc:   `{"argument": {"type": "namespace:literal"}}`,
			field: FieldName,
			path:  "",
		},
		{
			name:  "missing argument",
			doc:   `{"name": "test"}`,
			field: FieldArgument,
			path:  "test",
		},
		{
			name:  "missing type",
			doc:   `{"name": "test", "argument": {"min": 0}}`,
			field: FieldType,
			path:  "test",
		},
		{
			name:  "nested missing name",
			doc:   `{"name": "test", "argument": {"type": "namespace:literal"}, "children": [{"argument": {"type": "boolean"}}]}`,
			field: FieldName,
			path:  "test/[0]",
		},
		{
			name:  "null child",
			doc:   `{"name": "test", "argument": {"type": "namespace:literal"}, "children": [null]}`,
			field: FieldName,
			path:  "test/[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSON([]byte(tt.doc))
			require.NoError(t, err)

			_, err = NewDecoder(nil, nil).Decode(doc)
			require.Error(t, err)

			var missing *MissingFieldError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.field, missing.Field)

			var nodeErr *NodeError
			require.True(t, errors.As(err, &nodeErr))
			assert.Equal(t, tt.path, nodeErr.Path)
		})
	}
}

func TestDecode_NonStringType(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"name": "test", "argument": {"type": 5}}`))
	require.NoError(t, err)

	_, err = NewDecoder(nil, nil).Decode(doc)
	var malformed *argcodec.MalformedArgumentError
	assert.True(t, errors.As(err, &malformed))
}

func TestDecode_UnknownType(t *testing.T) {
	doc, err := ReadFile(filepath.Join("testdata", "unknown_type.json"))
	require.NoError(t, err)

	_, err = NewDecoder(nil, nil).DecodeNode(doc)
	require.Error(t, err)

	var unknown *argcodec.UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "item_stack", unknown.Type)

	var nodeErr *NodeError
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, "give/item", nodeErr.Path)
}

func TestDecode_MalformedArgument(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"name": "test",
		"argument": {"type": "namespace:literal"},
		"children": [{"name": "v", "argument": {"type": "integer", "min": 5, "max": 1}}]
	}`))
	require.NoError(t, err)

	_, err = NewDecoder(nil, nil).Decode(doc)
	var malformed *argcodec.MalformedArgumentError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, tree.TypeInteger, malformed.Type)
}

func TestDecode_UnresolvableAction(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"name": "test",
		"argument": {"type": "namespace:literal"},
		"executes": "no.such.Class::method"
	}`))
	require.NoError(t, err)

	var diags []*tree.Diagnostic
	root, err := newTestDecoder(t, &diags).DecodeNode(doc)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, "no.such.Class::method", diags[0].Reference)
	assert.Equal(t, tree.HandleAction, diags[0].Kind)
	assert.ErrorIs(t, diags[0].Cause, handler.ErrUnknownQualifier)

	action := root.Action()
	require.NotNil(t, action)
	assert.True(t, action.Fallback())
	assert.Equal(t, 0, action.Run(&tree.Context{}))

	out, err := NewEncoder(nil).Encode(root)
	require.NoError(t, err)
	assert.Equal(t, Ref("no.such.Class::method"), out.Executes)
}

func TestDecode_UnresolvableGuard(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"name": "test",
		"argument": {"type": "namespace:literal"},
		"requires": "pkg.Perms::missing"
	}`))
	require.NoError(t, err)

	var diags []*tree.Diagnostic
	root, err := newTestDecoder(t, &diags).DecodeNode(doc)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, tree.HandleGuard, diags[0].Kind)
	assert.False(t, root.CanUse(&tree.Context{Source: "op"}))
	assert.Len(t, tree.Diagnostics(root), 1)
}

func TestDecode_EmptyReference(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"name": "test",
		"argument": {"type": "namespace:literal"},
		"executes": "",
		"requires": ""
	}`))
	require.NoError(t, err)
	require.NotNil(t, doc.Executes)

	var diags []*tree.Diagnostic
	root, err := newTestDecoder(t, &diags).DecodeNode(doc)
	require.NoError(t, err)

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, "", d.Reference)
		assert.ErrorIs(t, d.Cause, handler.ErrMalformedReference)
	}

	require.NotNil(t, root.Action())
	assert.True(t, root.Action().Fallback())
	require.NotNil(t, root.Guard())
	assert.True(t, root.Guard().Fallback())
}

func TestRoundTrip_EmptyReference(t *testing.T) {
	root := tree.Literal("a").
		Executes(tree.NewAction("", func(*tree.Context) int { return 1 })).
		Then(tree.Literal("b").Requires(tree.NewGuard("", func(*tree.Context) bool { return true }))).
		MustBuild()

	doc, err := NewEncoder(nil).Encode(root)
	require.NoError(t, err)
	assert.Equal(t, Ref(""), doc.Executes)
	assert.Equal(t, Ref(""), doc.Children[0].Requires)

	data, err := MarshalJSON(doc, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "a",
		"argument": {"type": "namespace:literal"},
		"executes": "",
		"children": [
			{"name": "b", "argument": {"type": "namespace:literal"}, "requires": ""}
		]
	}`, string(data))

	parsed, err := ParseJSON(data)
	require.NoError(t, err)
	back, err := NewDecoder(nil, nil).DecodeNode(parsed)
	require.NoError(t, err)
	assert.True(t, tree.Equal(root, back))
	assert.Len(t, tree.Diagnostics(back), 2)
}

func TestDecode_FailureReportsNoDiagnostics(t *testing.T) {
	data := []byte(`{
		"name": "r",
		"argument": {"type": "namespace:literal"},
		"children": [
			{"name": "a", "argument": {"type": "namespace:literal"}, "executes": "no.such::run"},
			{"name": "b", "argument": {"type": "bogus:type"}}
		]
	}`)
	doc, err := ParseJSON(data)
	require.NoError(t, err)

	var diags []*tree.Diagnostic
	_, err = newTestDecoder(t, &diags).Decode(doc)
	var unknown *argcodec.UnknownTypeError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Empty(t, diags)

	doc.Name = RootName
	doc.Argument = argcodec.Record{"type": RootType}
	_, err = newTestDecoder(t, &diags).DecodeRoot(doc)
	require.Error(t, err)
	assert.Empty(t, diags)
}

func TestDecode_NumericStringTag(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"name": "s", "argument": {"type": "string", "string_type": 5}}`))
	require.NoError(t, err)

	n, err := NewDecoder(nil, nil).DecodeNode(doc)
	require.NoError(t, err)
	assert.Equal(t, tree.String(), n.Spec())
}

func TestDecode_PreservesOrder(t *testing.T) {
	names := []string{"zeta", "alpha", "mid", "beta", "omega", "gamma"}

	doc := &Node{Name: "root", Argument: argcodec.Record{"type": LiteralType}}
	for _, name := range names {
		doc.Children = append(doc.Children, &Node{
			Name:     name,
			Argument: argcodec.Record{"type": LiteralType},
		})
	}

	root, err := NewDecoder(nil, nil).DecodeNode(doc)
	require.NoError(t, err)

	var got []string
	for _, c := range root.Children() {
		got = append(got, c.Name())
	}
	assert.Equal(t, names, got)

	out, err := NewEncoder(nil).Encode(root)
	require.NoError(t, err)
	got = got[:0]
	for _, c := range out.Children {
		got = append(got, c.Name)
	}
	assert.Equal(t, names, got)
}

func TestDecode_DuplicateChild(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"name": "test",
		"argument": {"type": "namespace:literal"},
		"children": [
			{"name": "a", "argument": {"type": "namespace:literal"}},
			{"name": "a", "argument": {"type": "boolean"}}
		]
	}`))
	require.NoError(t, err)

	_, err = NewDecoder(nil, nil).Decode(doc)
	var dup *DuplicateChildError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Name)
}

func TestDecode_RootTypeNested(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"name": "test", "argument": {"type": "namespace:root"}}`))
	require.NoError(t, err)

	_, err = NewDecoder(nil, nil).Decode(doc)
	assert.Error(t, err)
}

func TestDecoder_CustomType(t *testing.T) {
	reg := argcodec.NewRegistry()
	require.NoError(t, reg.RegisterFuncs("coordinate",
		func(spec tree.ArgumentSpec) (argcodec.Record, error) {
			return argcodec.Record{"relative": spec.(coordinateArg).Relative}, nil
		},
		func(rec argcodec.Record) (tree.ArgumentSpec, error) {
			relative, _ := rec["relative"].(bool)
			return coordinateArg{Relative: relative}, nil
		},
	))

	original := tree.Literal("tp").
		Then(tree.Argument("pos", coordinateArg{Relative: true})).
		MustBuild()

	doc, err := NewEncoder(reg).Encode(original)
	require.NoError(t, err)
	assert.Equal(t, argcodec.Record{"type": "coordinate", "relative": true}, doc.Children[0].Argument)

	data, err := MarshalJSON(doc, 0)
	require.NoError(t, err)
	parsed, err := ParseJSON(data)
	require.NoError(t, err)

	decoded, err := NewDecoder(reg, nil).DecodeNode(parsed)
	require.NoError(t, err)
	assert.True(t, tree.Equal(original, decoded))
}

func TestDispatcherRoot(t *testing.T) {
	doc, err := ReadFile(filepath.Join("testdata", "dispatcher.yaml"))
	require.NoError(t, err)
	require.True(t, doc.IsRoot())

	var diags []*tree.Diagnostic
	dec := newTestDecoder(t, &diags)
	commands, err := dec.DecodeRoot(doc)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, commands, 3)

	teleport := commands[0]
	assert.Equal(t, "teleport", teleport.Name())
	require.NotNil(t, teleport.Guard())
	assert.Equal(t, "game.Perms::operator", teleport.Guard().Ref)

	x, ok := teleport.Child("x")
	require.True(t, ok)
	assert.Equal(t, tree.DoubleRange(-30000000, 30000000), x.Spec())
	y, ok := x.Child("y")
	require.True(t, ok)
	assert.Equal(t, tree.Double(), y.Spec())

	say, ok := commands[1].Child("message")
	require.True(t, ok)
	assert.Equal(t, tree.Greedy(), say.Spec())

	seed, ok := commands[2].Child("value")
	require.True(t, ok)
	assert.Equal(t, tree.LongMin(-9007199254740993), seed.Spec())
	assert.NotNil(t, commands[2].Action())

	out, err := NewEncoder(nil).EncodeRoot(commands)
	require.NoError(t, err)
	assert.Equal(t, RootName, out.Name)
	assert.Equal(t, RootType, out.Type())

	data, err := MarshalYAML(out)
	require.NoError(t, err)
	reparsed, err := ParseYAML(data)
	require.NoError(t, err)
	again, err := dec.DecodeRoot(reparsed)
	require.NoError(t, err)
	require.Len(t, again, len(commands))
	for i := range commands {
		assert.True(t, tree.Equal(commands[i], again[i]), "command %s changed", commands[i].Name())
	}
}

func TestDecodeRoot_Errors(t *testing.T) {
	t.Run("not a root", func(t *testing.T) {
		doc := &Node{Name: "test", Argument: argcodec.Record{"type": LiteralType}}
		_, err := NewDecoder(nil, nil).DecodeRoot(doc)
		assert.Error(t, err)
	})

	t.Run("duplicate command", func(t *testing.T) {
		doc := &Node{
			Name:     RootName,
			Argument: argcodec.Record{"type": RootType},
			Children: []*Node{
				{Name: "a", Argument: argcodec.Record{"type": LiteralType}},
				{Name: "a", Argument: argcodec.Record{"type": LiteralType}},
			},
		}
		_, err := NewDecoder(nil, nil).DecodeRoot(doc)
		var dup *DuplicateChildError
		assert.True(t, errors.As(err, &dup))
	})

	t.Run("duplicate on encode", func(t *testing.T) {
		a := tree.Literal("a").MustBuild()
		_, err := NewEncoder(nil).EncodeRoot([]*tree.Node{a, a})
		var dup *DuplicateChildError
		assert.True(t, errors.As(err, &dup))
	})
}

type coordinateArg struct {
	Relative bool
}

func (coordinateArg) TypeID() string { return "coordinate" }

type reservedArg struct{}

func (reservedArg) TypeID() string { return LiteralType }
