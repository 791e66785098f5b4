/*
Package config loads the pricing settings file.

PURPOSE:
  The price table lives in a small JSON settings object so the school can
  change prices without a rebuild:

    {"single": 180, "two": 280, "three": 380, "sister": 20}

  Missing file, unreadable JSON, or absent keys degrade to the hard-coded
  defaults; the loader reports what it defaulted so results can carry a
  warning instead of failing the query.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/baila/tuition-engine/tuition"
)

// pricingJSON mirrors the settings file. Pointers distinguish an absent key
// from an explicit zero.
type pricingJSON struct {
	Single *int64 `json:"single"`
	Two    *int64 `json:"two"`
	Three  *int64 `json:"three"`
	Sister *int64 `json:"sister"`
}

// LoadPriceTable reads the settings file. It always returns a usable table;
// warnings describe any fallback to defaults.
func LoadPriceTable(path string) (tuition.PriceTable, []string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tuition.DefaultPriceTable(), []string{
			fmt.Sprintf("pricing config %s unreadable; using defaults: %v", path, err),
		}
	}
	return ParsePriceTable(raw)
}

// ParsePriceTable parses the settings object, filling absent keys from the
// defaults.
func ParsePriceTable(raw []byte) (tuition.PriceTable, []string) {
	var pj pricingJSON
	if err := json.Unmarshal(raw, &pj); err != nil {
		return tuition.DefaultPriceTable(), []string{
			fmt.Sprintf("pricing config does not parse; using defaults: %v", err),
		}
	}

	table := tuition.DefaultPriceTable()
	var warnings []string

	if pj.Single != nil {
		table.Single = *pj.Single
	} else {
		warnings = append(warnings, "pricing config missing 'single'; using default")
	}
	if pj.Two != nil {
		table.Two = *pj.Two
	} else {
		warnings = append(warnings, "pricing config missing 'two'; using default")
	}
	if pj.Three != nil {
		table.ThreeOrMore = *pj.Three
	} else {
		warnings = append(warnings, "pricing config missing 'three'; using default")
	}
	if pj.Sister != nil {
		table.SiblingDiscount = *pj.Sister
	} else {
		warnings = append(warnings, "pricing config missing 'sister'; using default")
	}

	warnings = append(warnings, table.Validate()...)
	return table, warnings
}
