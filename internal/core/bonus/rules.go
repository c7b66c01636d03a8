package bonus

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RuleKind identifies how a bonus rule turns a trip record into money.
type RuleKind string

const (
	// KindPerUnit pays Rate for every unit hauled (coluna QUANT.).
	KindPerUnit RuleKind = "per_unit"
	// KindPercentRevenue pays Rate as a fraction of the trip revenue (TOTAL (R$)).
	KindPercentRevenue RuleKind = "percent_revenue"
	// KindFlatPerTrip pays Rate once per trip, regardless of load or revenue.
	KindFlatPerTrip RuleKind = "flat_per_trip"
)

// Rule maps a set of cost centers to one bonus formula. The first rule whose
// Match list contains the record's cost center wins.
type Rule struct {
	Name  string
	Match []string
	Kind  RuleKind
	Rate  decimal.Decimal
}

// RuleSet is the full bonus configuration: the ordered rules plus the driver
// name aliases applied during ingestion.
type RuleSet struct {
	Rules   []Rule
	Aliases map[string]string
}

// DefaultRules returns the rule set the payroll sheet has always used:
// R$ 1,00 per tonne on brita/areia hauls and 2% of revenue on cimento/aditivo.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Rules: []Rule{
			{
				Name:  "brita e areia",
				Match: []string{"FRETE BRITA", "AREIA"},
				Kind:  KindPerUnit,
				Rate:  decimal.NewFromInt(1),
			},
			{
				Name:  "cimento e aditivo",
				Match: []string{"FRETE CIMENTO", "FRETE ADITIVO"},
				Kind:  KindPercentRevenue,
				Rate:  decimal.NewFromFloat(0.02),
			},
		},
		Aliases: map[string]string{
			"VINICIUS":          "VINÍCIUS",
			"MARCOS NASCIMENTO": "MARCOS",
		},
	}
}

type ruleConfig struct {
	Name  string   `yaml:"name"`
	Match []string `yaml:"match"`
	Kind  string   `yaml:"kind"`
	Rate  string   `yaml:"rate"`
}

type rulesFile struct {
	Rules   []ruleConfig      `yaml:"rules"`
	Aliases map[string]string `yaml:"driver_aliases"`
}

// LoadRules reads and validates a YAML rule file. Rates are written as strings
// ("0.02", not 0.02) so they survive the trip into decimal arithmetic intact.
func LoadRules(r io.Reader) (*RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var cfg rulesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("rules file defines no bonus rules")
	}

	set := &RuleSet{Aliases: cfg.Aliases}
	for i, rc := range cfg.Rules {
		if strings.TrimSpace(rc.Name) == "" {
			return nil, fmt.Errorf("rule %d: missing name", i+1)
		}
		if len(rc.Match) == 0 {
			return nil, fmt.Errorf("rule %q: missing cost centers to match", rc.Name)
		}
		kind := RuleKind(rc.Kind)
		switch kind {
		case KindPerUnit, KindPercentRevenue, KindFlatPerTrip:
		default:
			return nil, fmt.Errorf("rule %q: unknown kind %q", rc.Name, rc.Kind)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(rc.Rate))
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid rate %q", rc.Name, rc.Rate)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("rule %q: negative rate %s", rc.Name, rate)
		}
		set.Rules = append(set.Rules, Rule{
			Name:  rc.Name,
			Match: rc.Match,
			Kind:  kind,
			Rate:  rate,
		})
	}
	return set, nil
}

// ---------------------- índice compilado ----------------------

type aliasRule struct {
	re   *regexp.Regexp
	repl string
}

type ruleIndex struct {
	byCostCenter map[string]*Rule
	aliases      []aliasRule
}

func compileRules(set *RuleSet) *ruleIndex {
	idx := &ruleIndex{byCostCenter: make(map[string]*Rule)}
	for i := range set.Rules {
		rule := &set.Rules[i]
		for _, m := range rule.Match {
			key := normalizeText(m)
			if key == "" {
				continue
			}
			if _, ok := idx.byCostCenter[key]; !ok {
				idx.byCostCenter[key] = rule
			}
		}
	}

	keys := make([]string, 0, len(set.Aliases))
	for k := range set.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pattern := `\b` + regexp.QuoteMeta(strings.ToUpper(strings.TrimSpace(k))) + `\b`
		idx.aliases = append(idx.aliases, aliasRule{
			re:   regexp.MustCompile(pattern),
			repl: set.Aliases[k],
		})
	}
	return idx
}

func (idx *ruleIndex) ruleFor(costCenter string) *Rule {
	return idx.byCostCenter[normalizeText(costCenter)]
}

func (idx *ruleIndex) applyAliases(name string) string {
	for _, a := range idx.aliases {
		name = a.re.ReplaceAllString(name, a.repl)
	}
	return strings.TrimSpace(name)
}
