package rule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned for malformed rule notation.
var ErrSyntax = errors.New("rule: invalid syntax")

// String renders the rule in B/S notation, e.g. "B3/S23". Rules that count
// the centre cell carry a "/N9" suffix.
func (r Rule) String() string {
	var b strings.Builder
	b.WriteByte('B')
	writeDigits(&b, r.tables[0])
	b.WriteString("/S")
	writeDigits(&b, r.tables[1])
	if r.mode == IncludeSelf {
		b.WriteString("/N9")
	}
	return b.String()
}

func writeDigits(b *strings.Builder, t Table) {
	for _, k := range t.Counts() {
		b.WriteByte(byte('0' + k))
	}
}

// Parse reads B/S notation: "B<digits>/S<digits>" optionally followed by
// "/N8" (the default) or "/N9". Letters are case-insensitive. Any digit 0..9
// is accepted in either mode; counts the mode cannot reach are simply never
// looked up.
func Parse(s string) (Rule, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return Rule{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	dead, err := parseTable(parts[0], 'B')
	if err != nil {
		return Rule{}, fmt.Errorf("%w in %q", err, s)
	}
	alive, err := parseTable(parts[1], 'S')
	if err != nil {
		return Rule{}, fmt.Errorf("%w in %q", err, s)
	}
	mode := ExcludeSelf
	if len(parts) == 3 {
		switch strings.ToUpper(parts[2]) {
		case "N8":
		case "N9":
			mode = IncludeSelf
		default:
			return Rule{}, fmt.Errorf("%w: neighbourhood %q in %q", ErrSyntax, parts[2], s)
		}
	}
	return New(dead, alive, mode), nil
}

func parseTable(field string, prefix byte) (Table, error) {
	if field == "" || (field[0] != prefix && field[0] != prefix+'a'-'A') {
		return 0, fmt.Errorf("%w: expected %c", ErrSyntax, prefix)
	}
	var t Table
	for _, ch := range field[1:] {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("%w: bad count %q", ErrSyntax, ch)
		}
		t |= 1 << uint(ch-'0')
	}
	return t, nil
}
