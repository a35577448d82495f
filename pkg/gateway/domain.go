package gateway

// Domain is an ordered remote query filter: [field, operator, value] triples
// plus prefix logical operators, each operator applying to the two clauses
// that follow it.
type Domain []any

// Prefix logical operators.
const (
	OpAnd = "&"
	OpOr  = "|"
	OpNot = "!"
)

// Condition builds a [field, operator, value] triple.
func Condition(field, operator string, value any) []any {
	return []any{field, operator, value}
}

// Add appends clauses to the domain.
func (d Domain) Add(clauses ...any) Domain {
	return append(d, clauses...)
}

// Or appends a prefix-OR of the two clauses.
func (d Domain) Or(left, right []any) Domain {
	return append(d, OpOr, left, right)
}

// Not appends a prefix-NOT of the clause.
func (d Domain) Not(clause []any) Domain {
	return append(d, OpNot, clause)
}

// Slice returns the domain in the wire shape. A nil domain becomes the empty
// filter, which matches everything.
func (d Domain) Slice() []any {
	if d == nil {
		return []any{}
	}
	return d
}
