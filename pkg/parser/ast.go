package parser

type Keyword string

const (
	KeywordDef   Keyword = "def"
	KeywordEnd   Keyword = "end"
	KeywordClass Keyword = "class"
	KeywordIf    Keyword = "if"
	KeywordElse  Keyword = "else"
	KeywordWhile Keyword = "while"
	KeywordTrue  Keyword = "true"
	KeywordFalse Keyword = "false"
)

// Node is any syntax-tree node. Every statement in Rill is an expression.
type Node interface {
	Pos() Position
}

type Program struct {
	Body *Block

	Position
}

type Block struct {
	Statements []Node

	Position
}

type BoolLit struct {
	Value bool

	Position
}

type IntLit struct {
	Value int64

	Position
}

type FloatLit struct {
	Value float64

	Position
}

type CharLit struct {
	Value rune

	Position
}

type StringLit struct {
	Value string

	Position
}

// Ident is a reference to a local variable known to be assigned in the
// enclosing body. Unassigned bare names parse as paren-less Calls instead.
type Ident struct {
	Name string

	Position
}

// IVar is an instance-variable reference, e.g. @size.
type IVar struct {
	Name string

	Position
}

// Const is a capitalized type-name reference, e.g. the Foo in Foo.new.
type Const struct {
	Name string

	Position
}

type Assign struct {
	Target Node
	Value  Node

	Position
}

type Call struct {
	Receiver  Node
	Name      string
	Args      []Node
	HasParens bool

	Position
}

type Def struct {
	Name   string
	Params []string
	Body   *Block

	Position
}

type ClassDef struct {
	Name string
	Body *Block

	Position
}

type If struct {
	Cond Node
	Then *Block
	Else *Block

	Position
}

type While struct {
	Cond Node
	Body *Block

	Position
}
