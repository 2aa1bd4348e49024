package arbalest

import "strconv"

// Dialect selects placeholder syntax and reserved-word quoting. It is
// the only per-database configuration the builder has; everything else
// renders identically across dialects. A Dialect is meant to be chosen
// once per connection or pool, not per statement.
type Dialect struct {
	name    string
	ordinal bool
	quote   byte
}

var (
	// Postgres uses ordinal placeholders ($1..$n) and double-quote
	// identifier quoting.
	Postgres = Dialect{name: "postgres", ordinal: true, quote: '"'}
	// MySQL uses positional placeholders (?) and backtick quoting.
	MySQL = Dialect{name: "mysql", quote: '`'}
	// SQLite uses positional placeholders (?) and double-quote quoting.
	SQLite = Dialect{name: "sqlite", quote: '"'}
)

// Name returns the dialect name.
func (d Dialect) Name() string { return d.name }

// Placeholder returns the placeholder for the nth parameter, 1-based.
func (d Dialect) Placeholder(n int) string {
	if d.ordinal {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// QuoteIdent quotes the reserved-word parts of a possibly qualified
// identifier. Ordinary identifiers pass through untouched; names are
// opaque text, so anything that is not a bare identifier is left alone.
func (d Dialect) QuoteIdent(name string) string {
	out := ""
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			part := name[start:i]
			if start > 0 {
				out += "."
			}
			out += d.quotePart(part)
			start = i + 1
		}
	}
	return out
}

func (d Dialect) quotePart(part string) string {
	if !isBareIdent(part) || !isReservedWord(part) {
		return part
	}
	q := string(d.quote)
	escaped := ""
	for i := 0; i < len(part); i++ {
		if part[i] == d.quote {
			escaped += q
		}
		escaped += string(part[i])
	}
	return q + escaped + q
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Keywords that commonly collide with column or table names. Quoting is
// limited to these so ordinary identifiers render bare.
var reservedWords = map[string]struct{}{
	"all": {}, "and": {}, "as": {}, "asc": {}, "between": {}, "by": {},
	"case": {}, "check": {}, "column": {}, "constraint": {}, "create": {},
	"cross": {}, "default": {}, "delete": {}, "desc": {}, "distinct": {},
	"drop": {}, "else": {}, "end": {}, "exists": {}, "from": {}, "full": {},
	"group": {}, "having": {}, "in": {}, "index": {}, "inner": {},
	"insert": {}, "into": {}, "is": {}, "join": {}, "key": {}, "left": {},
	"like": {}, "limit": {}, "not": {}, "null": {}, "offset": {}, "on": {},
	"or": {}, "order": {}, "outer": {}, "primary": {}, "references": {},
	"right": {}, "select": {}, "set": {}, "table": {}, "then": {}, "to": {},
	"union": {}, "unique": {}, "update": {}, "user": {}, "using": {},
	"values": {}, "when": {}, "where": {},
}

func isReservedWord(s string) bool {
	lower := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		lower[i] = ch
	}
	_, ok := reservedWords[string(lower)]
	return ok
}
