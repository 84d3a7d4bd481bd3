package csvtable

import (
	"reflect"
	"testing"
)

func TestParseSimpleRows(t *testing.T) {
	rows := Parse("q,a,b,c,d\nsecond, x , y ,z,w\n")
	want := [][]string{
		{"q", "a", "b", "c", "d"},
		{"second", "x", "y", "z", "w"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestParseQuotedMultilineField(t *testing.T) {
	rows := Parse("header\n\"line1\nline2\",A,B,C,D")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %#v", len(rows), rows)
	}
	if rows[1][0] != "line1\nline2" {
		t.Fatalf("expected multiline field preserved, got %q", rows[1][0])
	}
}

func TestParseEscapedQuote(t *testing.T) {
	rows := Parse(`"He said ""hi""",A,B,C,D`)
	if rows[0][0] != `He said "hi"` {
		t.Fatalf("expected escaped quote collapsed, got %q", rows[0][0])
	}
}

func TestParseQuotedFieldNotTrimmed(t *testing.T) {
	rows := Parse("\"  padded  \",plain\n")
	if rows[0][0] != "  padded  " {
		t.Fatalf("expected quoted field verbatim, got %q", rows[0][0])
	}
	if rows[0][1] != "plain" {
		t.Fatalf("expected unquoted field trimmed, got %q", rows[0][1])
	}
}

func TestParseDropsBlankLines(t *testing.T) {
	rows := Parse("a,b\n\n\n , \nc,d\n")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("expected blank lines dropped, got %#v", rows)
	}
}

func TestParseCRLFRowSeparators(t *testing.T) {
	rows := Parse("a,b\r\nc,d\r\n")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("expected crlf rows split, got %#v", rows)
	}
}

func TestParseCRLFInsideQuotesIsContent(t *testing.T) {
	rows := Parse("\"a\r\nb\",c")
	if len(rows) != 1 || rows[0][0] != "a\r\nb" {
		t.Fatalf("expected crlf kept inside quotes, got %#v", rows)
	}
}

func TestParseFlushesLastRowWithoutNewline(t *testing.T) {
	rows := Parse("a,b\nc,d")
	if len(rows) != 2 || rows[1][1] != "d" {
		t.Fatalf("expected trailing row flushed, got %#v", rows)
	}
}

func TestParseStrayQuoteMidFieldIsLiteral(t *testing.T) {
	rows := Parse("it's a 5\" screen,b\n")
	if rows[0][0] != "it's a 5\" screen" {
		t.Fatalf("expected literal quote, got %q", rows[0][0])
	}
}

func TestParseUnterminatedQuoteRunsToEOF(t *testing.T) {
	rows := Parse("\"never closed,still content\nmore")
	if len(rows) != 1 || rows[0][0] != "never closed,still content\nmore" {
		t.Fatalf("expected single field to eof, got %#v", rows)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	input := "h\n\"multi\nline\",a,b,c,d\nplain,e,f,g,h"
	first := Parse(input)
	second := Parse(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical parses, got %#v vs %#v", first, second)
	}
}
