package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"torus-ca/pkg/rule"
)

// RuleInfo describes one selectable rule.
type RuleInfo struct {
	Name     string `json:"name"`
	Notation string `json:"notation"`
	Mode     string `json:"mode"`
	Source   string `json:"source"` // "preset" | "custom"
}

// RuleList is the output of the rules command.
type RuleList []RuleInfo

func (l RuleList) String() string {
	title := cases.Title(language.English)
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, r := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", title.String(r.Name), r.Notation, r.Mode, r.Source)
	}
	_ = tw.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List preset and configured rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.resolveConfig(cmd)
			if err != nil {
				return err
			}
			custom, err := cfg.CustomRules()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid custom rules", err)
			}
			var out RuleList
			for _, p := range rule.Presets() {
				out = append(out, ruleInfo(p, "preset"))
			}
			for _, p := range custom {
				out = append(out, ruleInfo(p, "custom"))
			}
			return rootOpts.formatter(cmd).Success(out)
		},
	}
}

func ruleInfo(p rule.Preset, source string) RuleInfo {
	return RuleInfo{
		Name:     p.Name,
		Notation: p.Rule.String(),
		Mode:     p.Rule.Mode().String(),
		Source:   source,
	}
}
