package qir

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// QIRLexer tokenizes the textual intermediate representation. Sigil-prefixed
// identifiers carry their sigil so locals, globals and attribute-group
// references never collide with keywords.
var QIRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `;[^\n]*`},

		// String literals (attribute keys/values, source_filename)
		{Name: "String", Pattern: `"(\\"|[^"])*"`},

		// Sigil-prefixed identifiers
		{Name: "LocalIdent", Pattern: `%[-a-zA-Z$._0-9]+`},
		{Name: "GlobalIdent", Pattern: `@[-a-zA-Z$._0-9]+`},
		{Name: "AttrGroupID", Pattern: `#[0-9]+`},

		// Integer type names (must come before Ident)
		{Name: "IntType", Pattern: `i[0-9]+`},

		// Keywords, opcodes and labels
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

		// Numeric literals (float before integer)
		{Name: "Float", Pattern: `-?[0-9]+\.[0-9]+([eE][+-]?[0-9]+)?`},
		{Name: "Integer", Pattern: `-?[0-9]+`},

		// Punctuation
		{Name: "Punctuation", Pattern: `[=(){},*:]`},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})
