package wtconfig

import (
	"strconv"
	"strings"

	"github.com/kvbridge/kvbridge/lib/status"
)

// --------------------------------------------------------------------------
// Config Items
// --------------------------------------------------------------------------

// ItemType classifies one parsed configuration token.
type ItemType int

const (
	ItemString ItemType = iota // Quoted or bare string value
	ItemBool                   // "true" or "false"
	ItemNum                    // 64-bit signed integer
	ItemStruct                 // Nested struct; Str holds the enclosed substring
)

func (t ItemType) String() string {
	switch t {
	case ItemString:
		return "String"
	case ItemBool:
		return "Bool"
	case ItemNum:
		return "Num"
	case ItemStruct:
		return "Struct"
	default:
		return "Unknown"
	}
}

// Item is one parsed token from a configuration string. Items are transient:
// they are produced and consumed while a parse is in progress and reference
// substrings of the source, they are never stored.
type Item struct {
	Type ItemType // Token classification
	Str  string   // Source text: string content, digits, or struct payload
	Val  int64    // Numeric payload: integer value, or 1/0 for booleans
}

// Bool returns the boolean payload of the item.
func (i Item) Bool() bool {
	return i.Val != 0
}

// --------------------------------------------------------------------------
// Parser
// --------------------------------------------------------------------------

// Parser is positioned over one configuration string. The grammar is a
// comma-separated list of key[=value] pairs where a value is a boolean, an
// integer, a quoted or bare string, or a parenthesised nested struct. A key
// without a value reads as boolean true, matching the engine convention.
//
// A Parser holds no global state: nested structs are parsed by constructing
// an independent Parser over the struct's payload (NewStructParser).
//
// Thread-safety: a Parser instance must not be shared between goroutines.
type Parser struct {
	src string
	pos int
}

// NewParser creates a parser over a top-level configuration string.
func NewParser(src string) *Parser {
	return &Parser{src: src}
}

// NewStructParser creates a parser over the payload of a Struct-typed item.
// Passing any other item type is a parse error.
func NewStructParser(item Item) (*Parser, error) {
	if item.Type != ItemStruct {
		return nil, status.Errorf(status.CodeFailedToParse,
			"cannot recurse into non-struct config value %q", item.Str)
	}
	return &Parser{src: item.Str}, nil
}

// Next returns the next key/value pair in source order. The third return
// value reports whether a pair was produced; (false, nil) is the exhaustion
// sentinel. A malformed-grammar condition mid-iteration returns a
// FailedToParse error, distinct from exhaustion.
func (p *Parser) Next() (Item, Item, bool, error) {
	p.skipSeparators()
	if p.pos >= len(p.src) {
		return Item{}, Item{}, false, nil
	}

	key, err := p.parseKey()
	if err != nil {
		return Item{}, Item{}, false, err
	}

	p.skipSpaces()
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		// bare key, defaults to boolean true
		return key, Item{Type: ItemBool, Str: "true", Val: 1}, true, nil
	}
	p.pos++ // consume '='
	p.skipSpaces()

	value, err := p.parseValue()
	if err != nil {
		return Item{}, Item{}, false, err
	}
	return key, value, true, nil
}

// Get looks up a key anywhere in the configuration string using an
// independent scan, leaving the parser's own iteration position untouched.
// If the key occurs more than once the last occurrence wins, matching the
// engine's override convention. Absence is reported as NotFoundInConfig,
// which callers may treat as a defaulting signal rather than a failure.
func (p *Parser) Get(key string) (Item, error) {
	scan := NewParser(p.src)
	var (
		found bool
		match Item
	)
	for {
		k, v, ok, err := scan.Next()
		if err != nil {
			return Item{}, err
		}
		if !ok {
			break
		}
		if k.Str == key {
			found = true
			match = v
		}
	}
	if !found {
		return Item{}, status.Errorf(status.CodeNotFoundInConfig,
			"key %q not found in config", key)
	}
	return match, nil
}

// --------------------------------------------------------------------------
// Scanning Helpers
// --------------------------------------------------------------------------

func (p *Parser) skipSpaces() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *Parser) skipSeparators() {
	for p.pos < len(p.src) && (isSpace(p.src[p.pos]) || p.src[p.pos] == ',') {
		p.pos++
	}
}

func (p *Parser) parseKey() (Item, error) {
	if p.src[p.pos] == '"' {
		return p.parseQuoted()
	}
	start := p.pos
	for p.pos < len(p.src) && !isKeyEnd(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Item{}, status.Errorf(status.CodeFailedToParse,
			"expected a key at offset %d in config %q", p.pos, p.src)
	}
	return Item{Type: ItemString, Str: p.src[start:p.pos]}, nil
}

func (p *Parser) parseValue() (Item, error) {
	if p.pos >= len(p.src) {
		return Item{Type: ItemString, Str: ""}, nil
	}
	switch c := p.src[p.pos]; {
	case c == '(' || c == '[':
		return p.parseStruct()
	case c == '"':
		return p.parseQuoted()
	default:
		return p.parseBare(), nil
	}
}

// parseQuoted consumes a double-quoted string. The quotes delimit the value
// verbatim; the grammar defines no escape sequences.
func (p *Parser) parseQuoted() (Item, error) {
	start := p.pos + 1
	end := strings.IndexByte(p.src[start:], '"')
	if end < 0 {
		return Item{}, status.Errorf(status.CodeFailedToParse,
			"unterminated quoted string at offset %d in config %q", p.pos, p.src)
	}
	p.pos = start + end + 1
	return Item{Type: ItemString, Str: p.src[start : start+end]}, nil
}

// parseStruct consumes a balanced parenthesised or bracketed struct and
// returns the enclosed substring. The payload is not parsed here: struct
// parsing is lazy and only performed by a caller that explicitly recurses.
func (p *Parser) parseStruct() (Item, error) {
	open := p.src[p.pos]
	start := p.pos + 1
	depth := 1
	i := start
	for i < len(p.src) && depth > 0 {
		switch c := p.src[i]; c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"':
			end := strings.IndexByte(p.src[i+1:], '"')
			if end < 0 {
				return Item{}, status.Errorf(status.CodeFailedToParse,
					"unterminated quoted string at offset %d in config %q", i, p.src)
			}
			i += end + 1
		}
		i++
	}
	if depth != 0 {
		return Item{}, status.Errorf(status.CodeFailedToParse,
			"unbalanced %q at offset %d in config %q", string(open), p.pos, p.src)
	}
	p.pos = i
	return Item{Type: ItemStruct, Str: p.src[start : i-1]}, nil
}

// parseBare consumes an unquoted token and classifies it as boolean, number
// or string. Anything that is not a boolean literal or a well-formed integer
// is taken verbatim as a string.
func (p *Parser) parseBare() Item {
	start := p.pos
	for p.pos < len(p.src) && !isValueEnd(p.src[p.pos]) {
		p.pos++
	}
	tok := p.src[start:p.pos]

	switch tok {
	case "true":
		return Item{Type: ItemBool, Str: tok, Val: 1}
	case "false":
		return Item{Type: ItemBool, Str: tok, Val: 0}
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Item{Type: ItemNum, Str: tok, Val: n}
	}
	return Item{Type: ItemString, Str: tok}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isKeyEnd(c byte) bool {
	return c == '=' || c == ',' || isSpace(c)
}

func isValueEnd(c byte) bool {
	return c == ',' || isSpace(c)
}
