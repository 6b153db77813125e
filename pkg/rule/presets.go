package rule

// Preset pairs a rule with the name it is selected by.
type Preset struct {
	Name string
	Rule Rule
}

// The masks below are written bit 9 first and are kept literal.
var (
	// Life is Conway's Game of Life: born on 3, survives on 2 or 3.
	Life = New(0b0000001000, 0b0000001100, ExcludeSelf)
	// Minor is a voting rule over the eight Moore neighbours.
	Minor = New(0b1101110000, 0b1101110000, ExcludeSelf)
	// Major turns a cell on when at least five of the nine block cells are on.
	Major = New(0b1111100000, 0b1111100000, IncludeSelf)
	// Vote is the twisted majority rule: 5 of 9 loses, 4 of 9 wins.
	Vote = New(0b1111010000, 0b1111010000, IncludeSelf)
)

var presets = []Preset{
	{Name: "life", Rule: Life},
	{Name: "minor", Rule: Minor},
	{Name: "major", Rule: Major},
	{Name: "vote", Rule: Vote},
}

// Presets returns the built-in rules in their canonical order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// Lookup returns the built-in rule with the given name.
func Lookup(name string) (Rule, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p.Rule, true
		}
	}
	return Rule{}, false
}
