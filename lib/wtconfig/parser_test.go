package wtconfig

import (
	"testing"

	"github.com/kvbridge/kvbridge/lib/status"
)

// drain collects all pairs of a parse, failing the test on grammar errors.
func drain(t *testing.T, p *Parser) [][2]Item {
	t.Helper()
	var pairs [][2]Item
	for {
		k, v, ok, err := p.Next()
		if err != nil {
			t.Fatalf("unexpected parse error: %v", err)
		}
		if !ok {
			return pairs
		}
		pairs = append(pairs, [2]Item{k, v})
	}
}

func TestNextFlatConfig(t *testing.T) {
	p := NewParser(`compressor=snappy,cache_size=1024,readonly=false,name="my table",prefetch`)
	pairs := drain(t, p)

	if len(pairs) != 5 {
		t.Fatalf("expected 5 pairs, got %d", len(pairs))
	}

	checks := []struct {
		key string
		typ ItemType
		str string
		val int64
	}{
		{"compressor", ItemString, "snappy", 0},
		{"cache_size", ItemNum, "1024", 1024},
		{"readonly", ItemBool, "false", 0},
		{"name", ItemString, "my table", 0},
		{"prefetch", ItemBool, "true", 1}, // bare key defaults to true
	}
	for i, want := range checks {
		k, v := pairs[i][0], pairs[i][1]
		if k.Str != want.key {
			t.Errorf("pair %d: expected key %q, got %q", i, want.key, k.Str)
		}
		if v.Type != want.typ {
			t.Errorf("pair %d (%s): expected type %s, got %s", i, want.key, want.typ, v.Type)
		}
		if v.Str != want.str {
			t.Errorf("pair %d (%s): expected str %q, got %q", i, want.key, want.str, v.Str)
		}
		if v.Val != want.val {
			t.Errorf("pair %d (%s): expected val %d, got %d", i, want.key, want.val, v.Val)
		}
	}
}

func TestNextExhaustionSentinel(t *testing.T) {
	p := NewParser("a=1")
	if _, _, ok, err := p.Next(); !ok || err != nil {
		t.Fatalf("expected one pair, got ok=%v err=%v", ok, err)
	}
	for i := 0; i < 3; i++ {
		_, _, ok, err := p.Next()
		if ok || err != nil {
			t.Fatalf("exhausted parser must keep returning the sentinel, got ok=%v err=%v", ok, err)
		}
	}

	empty := NewParser("")
	if _, _, ok, err := empty.Next(); ok || err != nil {
		t.Errorf("empty config must exhaust immediately, got ok=%v err=%v", ok, err)
	}
}

func TestNumbers(t *testing.T) {
	p := NewParser("a=-42,b=0,c=9223372036854775807")
	pairs := drain(t, p)
	wants := []int64{-42, 0, 9223372036854775807}
	for i, want := range wants {
		if pairs[i][1].Type != ItemNum || pairs[i][1].Val != want {
			t.Errorf("pair %d: expected Num %d, got %s %d", i, want, pairs[i][1].Type, pairs[i][1].Val)
		}
	}
}

func TestStructIsLazy(t *testing.T) {
	p := NewParser("app_metadata=(formatVersion=2,oplogKeyExtractionVersion=1),other=1")
	k, v, ok, err := p.Next()
	if err != nil || !ok {
		t.Fatalf("expected struct pair, got ok=%v err=%v", ok, err)
	}
	if k.Str != "app_metadata" {
		t.Fatalf("expected key app_metadata, got %q", k.Str)
	}
	if v.Type != ItemStruct {
		t.Fatalf("expected a Struct item, got %s", v.Type)
	}
	// payload is the verbatim enclosed substring, not a parsed document
	if v.Str != "formatVersion=2,oplogKeyExtractionVersion=1" {
		t.Errorf("unexpected struct payload: %q", v.Str)
	}

	nested, err := NewStructParser(v)
	if err != nil {
		t.Fatalf("NewStructParser failed: %v", err)
	}
	pairs := drain(t, nested)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 nested pairs, got %d", len(pairs))
	}
	if pairs[0][1].Val != 2 || pairs[1][1].Val != 1 {
		t.Errorf("nested values wrong: %v", pairs)
	}
}

func TestNestedStructRecursion(t *testing.T) {
	p := NewParser("outer=(inner=(deep=7),flag=true)")
	_, v, ok, err := p.Next()
	if err != nil || !ok || v.Type != ItemStruct {
		t.Fatalf("expected outer struct, got ok=%v err=%v type=%s", ok, err, v.Type)
	}

	outer, err := NewStructParser(v)
	if err != nil {
		t.Fatal(err)
	}
	innerItem, err := outer.Get("inner")
	if err != nil {
		t.Fatal(err)
	}
	if innerItem.Type != ItemStruct || innerItem.Str != "deep=7" {
		t.Fatalf("unexpected inner struct: %s %q", innerItem.Type, innerItem.Str)
	}

	inner, err := NewStructParser(innerItem)
	if err != nil {
		t.Fatal(err)
	}
	deep, err := inner.Get("deep")
	if err != nil {
		t.Fatal(err)
	}
	if deep.Type != ItemNum || deep.Val != 7 {
		t.Errorf("expected deep=7, got %s %d", deep.Type, deep.Val)
	}
}

func TestBracketStruct(t *testing.T) {
	p := NewParser("columns=[id,name,size]")
	_, v, ok, err := p.Next()
	if err != nil || !ok {
		t.Fatalf("expected pair, got ok=%v err=%v", ok, err)
	}
	if v.Type != ItemStruct || v.Str != "id,name,size" {
		t.Errorf("expected bracketed struct payload, got %s %q", v.Type, v.Str)
	}
}

func TestGet(t *testing.T) {
	p := NewParser("a=1,b=(x=2),a=3")

	// later occurrences override earlier ones
	item, err := p.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if item.Type != ItemNum || item.Val != 3 {
		t.Errorf("expected last occurrence a=3, got %s %d", item.Type, item.Val)
	}

	item, err = p.Get("b")
	if err != nil {
		t.Fatal(err)
	}
	if item.Type != ItemStruct || item.Str != "x=2" {
		t.Errorf("expected struct x=2, got %s %q", item.Type, item.Str)
	}

	_, err = p.Get("missing")
	if status.CodeOf(err) != status.CodeNotFoundInConfig {
		t.Errorf("expected NotFoundInConfig for an absent key, got %v", err)
	}

	// Get must not disturb forward iteration
	k, _, ok, err := p.Next()
	if err != nil || !ok || k.Str != "a" {
		t.Errorf("iteration position was disturbed by Get: ok=%v err=%v key=%q", ok, err, k.Str)
	}
}

func TestMalformed(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"UnbalancedParen", "a=(b=1"},
		{"UnterminatedQuote", `a="never closed`},
		{"MissingKey", "=5"},
		{"UnterminatedQuoteInStruct", `a=(b="x)`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser(tc.src)
			for {
				_, _, ok, err := p.Next()
				if err != nil {
					if status.CodeOf(err) != status.CodeFailedToParse {
						t.Errorf("expected FailedToParse, got %v", err)
					}
					return
				}
				if !ok {
					t.Fatalf("malformed config %q parsed without error", tc.src)
				}
			}
		})
	}
}

func TestNewStructParserRejectsScalars(t *testing.T) {
	_, err := NewStructParser(Item{Type: ItemNum, Str: "7", Val: 7})
	if status.CodeOf(err) != status.CodeFailedToParse {
		t.Errorf("expected FailedToParse for non-struct item, got %v", err)
	}
}
