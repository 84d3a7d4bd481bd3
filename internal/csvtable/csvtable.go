// Package csvtable converts raw CSV text into rows of string fields.
//
// It intentionally does not use encoding/csv: the game accepts hand-edited
// files, so a stray quote mid-field must stay a literal character instead of
// aborting the parse, unquoted fields are trimmed while quoted fields keep
// their interior verbatim (including embedded newlines), and blank lines are
// dropped silently.
package csvtable

import "strings"

// Parse scans text left to right and returns one slice of fields per row.
//
// A field that begins with '"' enters quoted mode; inside it, commas and
// newlines are literal content and a doubled '"' collapses to one quote.
// Quoted fields are returned verbatim, unquoted fields are trimmed. Rows
// whose every field is empty are dropped. The final field and row are
// flushed even without a trailing newline.
func Parse(text string) [][]string {
	var (
		rows             [][]string
		row              []string
		field            strings.Builder
		inQuotes         bool
		startedWithQuote bool
	)

	flushField := func() {
		value := field.String()
		if !startedWithQuote {
			value = strings.TrimSpace(value)
		}
		row = append(row, value)
		field.Reset()
		startedWithQuote = false
	}

	flushRow := func() {
		flushField()
		for _, cell := range row {
			if len(cell) > 0 {
				rows = append(rows, row)
				break
			}
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '"':
			switch {
			case inQuotes && i+1 < len(text) && text[i+1] == '"':
				field.WriteByte('"')
				i++
			case inQuotes:
				inQuotes = false
			case field.Len() == 0 && !startedWithQuote:
				inQuotes = true
				startedWithQuote = true
			default:
				// Stray quote mid-field stays literal.
				field.WriteByte(ch)
			}
		case ch == ',' && !inQuotes:
			flushField()
		case ch == '\n' && !inQuotes:
			flushRow()
		case ch == '\r' && !inQuotes && i+1 < len(text) && text[i+1] == '\n':
			flushRow()
			i++
		default:
			field.WriteByte(ch)
		}
	}
	// An unterminated quoted field simply runs to end of input.
	flushRow()
	return rows
}
