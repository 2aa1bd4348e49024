package arbalest

import "strings"

// Operator is a SQL comparison or predicate token. Known operators come
// from the allow-list below or from Custom; anything else constructed
// through Op is unknown and fails only when the statement is rendered.
type Operator struct {
	token string
	known bool
}

// Allow-listed operators.
var (
	OpEq        = Operator{"=", true}
	OpNe        = Operator{"!=", true}
	OpLt        = Operator{"<", true}
	OpLe        = Operator{"<=", true}
	OpGt        = Operator{">", true}
	OpGe        = Operator{">=", true}
	OpLike      = Operator{"LIKE", true}
	OpILike     = Operator{"ILIKE", true}
	OpIn        = Operator{"IN", true}
	OpNotIn     = Operator{"NOT IN", true}
	OpIsNull    = Operator{"IS NULL", true}
	OpIsNotNull = Operator{"IS NOT NULL", true}
	OpExists    = Operator{"EXISTS", true}
	OpNotExists = Operator{"NOT EXISTS", true}
)

var allowList = []Operator{
	OpEq, OpNe, OpLt, OpLe, OpGt, OpGe,
	OpLike, OpILike, OpIn, OpNotIn,
	OpIsNull, OpIsNotNull, OpExists, OpNotExists,
}

// Op converts a free-form token into an Operator. Tokens on the
// allow-list match case-insensitively; anything else becomes an unknown
// operator that Validate rejects at render time, so construction never
// fails.
func Op(token string) Operator {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	for _, op := range allowList {
		if op.token == normalized {
			return op
		}
	}
	return Operator{token: token}
}

// Custom registers an arbitrary symbol as a known operator, bypassing the
// allow-list. Intended for database-specific tokens such as the
// PostgreSQL full-text operator @@ or the PostGIS distance operator <->.
func Custom(token string) Operator {
	return Operator{token: token, known: true}
}

// Token returns the SQL token for the operator.
func (o Operator) Token() string { return o.token }

// Known reports whether the operator passes validation.
func (o Operator) Known() bool { return o.known }

func (o Operator) String() string { return o.token }

// Validate succeeds for every known operator and fails for unknown ones,
// naming the offending token and the nearest allow-listed match.
func (o Operator) Validate() error {
	if o.known {
		return nil
	}
	return &InvalidOperatorError{Token: o.token, Suggestion: nearestOperator(o.token)}
}

// nearestOperator returns the allow-listed token closest to the given one
// by edit distance.
func nearestOperator(token string) string {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	best, bestDist := "", -1
	for _, op := range allowList {
		d := editDistance(normalized, op.token)
		if bestDist < 0 || d < bestDist {
			best, bestDist = op.token, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
