package parser_test

import (
	"strings"
	"testing"

	"github.com/rill-lang/rill/pkg/parser"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *parser.Program {
	t.Helper()

	prog, err := parser.ParseString("test.rl", src)
	require.NoError(t, err)

	return prog
}

func TestParseLiterals(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "5\n1.5\ntrue\n'a'\n\"hi\\n\"")
	r.Len(prog.Body.Statements, 5)

	r.Equal(int64(5), prog.Body.Statements[0].(*parser.IntLit).Value)
	r.Equal(1.5, prog.Body.Statements[1].(*parser.FloatLit).Value)
	r.True(prog.Body.Statements[2].(*parser.BoolLit).Value)
	r.Equal('a', prog.Body.Statements[3].(*parser.CharLit).Value)
	r.Equal("hi\n", prog.Body.Statements[4].(*parser.StringLit).Value)
}

func TestParseAssignedNameIsIdent(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "x = 1\nx")
	r.Len(prog.Body.Statements, 2)

	assign, ok := prog.Body.Statements[0].(*parser.Assign)
	r.True(ok)
	r.Equal("x", assign.Target.(*parser.Ident).Name)

	ident, ok := prog.Body.Statements[1].(*parser.Ident)
	r.True(ok)
	r.Equal("x", ident.Name)
}

func TestParseBareNameIsCall(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "foo")
	call, ok := prog.Body.Statements[0].(*parser.Call)
	r.True(ok)
	r.Equal("foo", call.Name)
	r.False(call.HasParens)
	r.Nil(call.Receiver)
}

func TestParseCallWithParens(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "foo(1, 2)")
	call := prog.Body.Statements[0].(*parser.Call)
	r.Equal("foo", call.Name)
	r.True(call.HasParens)
	r.Len(call.Args, 2)
}

func TestParseLocalsScopedPerBody(t *testing.T) {
	r := require.New(t)

	// x is a local inside the def only; the trailing bare x is a call.
	prog := parse(t, "def f(x)\n  x\nend\nx")
	def := prog.Body.Statements[0].(*parser.Def)
	_, ok := def.Body.Statements[0].(*parser.Ident)
	r.True(ok)

	call, ok := prog.Body.Statements[1].(*parser.Call)
	r.True(ok)
	r.Equal("x", call.Name)
	r.False(call.HasParens)
}

func TestParseOperatorPrecedence(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "1 + 2 * 3")
	add := prog.Body.Statements[0].(*parser.Call)
	r.Equal("+", add.Name)
	r.Equal(int64(1), add.Receiver.(*parser.IntLit).Value)

	mul := add.Args[0].(*parser.Call)
	r.Equal("*", mul.Name)
	r.Equal(int64(2), mul.Receiver.(*parser.IntLit).Value)
	r.Equal(int64(3), mul.Args[0].(*parser.IntLit).Value)
}

func TestParseComparisonBindsLooser(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "1 + 2 < 4")
	lt := prog.Body.Statements[0].(*parser.Call)
	r.Equal("<", lt.Name)
	r.Equal("+", lt.Receiver.(*parser.Call).Name)
}

func TestParseMethodCallChain(t *testing.T) {
	r := require.New(t)

	prog := parse(t, `"abc".size.to_s`)
	outer := prog.Body.Statements[0].(*parser.Call)
	r.Equal("to_s", outer.Name)

	inner := outer.Receiver.(*parser.Call)
	r.Equal("size", inner.Name)
	r.Equal("abc", inner.Receiver.(*parser.StringLit).Value)
}

func TestParseDef(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "def add(a, b)\n  a + b\nend")
	def := prog.Body.Statements[0].(*parser.Def)
	r.Equal("add", def.Name)
	r.Equal([]string{"a", "b"}, def.Params)
	r.Len(def.Body.Statements, 1)
}

func TestParseDefWithoutParams(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "def zero\n  0\nend")
	def := prog.Body.Statements[0].(*parser.Def)
	r.Equal("zero", def.Name)
	r.Empty(def.Params)
}

func TestParseClassWithIVar(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "class Point\n  def set(v)\n    @x = v\n  end\nend")
	class := prog.Body.Statements[0].(*parser.ClassDef)
	r.Equal("Point", class.Name)

	def := class.Body.Statements[0].(*parser.Def)
	assign := def.Body.Statements[0].(*parser.Assign)
	r.Equal("x", assign.Target.(*parser.IVar).Name)
}

func TestParseNew(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "Point.new")
	call := prog.Body.Statements[0].(*parser.Call)
	r.Equal("new", call.Name)
	r.Equal("Point", call.Receiver.(*parser.Const).Name)
}

func TestParseIfElse(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "if true\n  1\nelse\n  2\nend")
	cond := prog.Body.Statements[0].(*parser.If)
	r.NotNil(cond.Else)
	r.Len(cond.Then.Statements, 1)
	r.Len(cond.Else.Statements, 1)

	prog = parse(t, "if true\n  1\nend")
	cond = prog.Body.Statements[0].(*parser.If)
	r.Nil(cond.Else)
}

func TestParseWhile(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "while 1 < 2\n  puts(1)\nend")
	loop := prog.Body.Statements[0].(*parser.While)
	r.Equal("<", loop.Cond.(*parser.Call).Name)
	r.Len(loop.Body.Statements, 1)
}

func TestParseCommentsAndSemicolons(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "# a comment\n1; 2 # trailing\n")
	r.Len(prog.Body.Statements, 2)
}

func TestParsePositions(t *testing.T) {
	r := require.New(t)

	prog := parse(t, "x = 1\ny = 2")
	second := prog.Body.Statements[1]
	r.Equal(2, second.Pos().Line)
	r.Equal(1, second.Pos().Column)
	r.Equal("test.rl", second.Pos().File)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{"unterminated string", `"abc`, "unterminated string literal"},
		{"unterminated char", "'a", "unterminated character literal"},
		{"missing end", "def f\n  1\n", `expected "end"`},
		{"stray else", "else", "unexpected"},
		{"bad escape", `"\q"`, "unknown escape sequence"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.ParseString("test.rl", tc.src)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDump(t *testing.T) {
	r := require.New(t)

	out := parser.Dump(parse(t, "x = 1\nputs(x)"))
	r.True(strings.HasPrefix(out, "block\n"))
	r.Contains(out, "assign")
	r.Contains(out, "call puts")
}
