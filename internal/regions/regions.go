// Package regions holds the static reference table of Russian federal
// subjects known to the dom.gosuslugi.ru license registry.
package regions

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// ErrNotFound is returned when a requested region code is absent from the
// reference table.
var ErrNotFound = eris.New("region code is absent in reference")

// Region is an immutable code/name pair from the reference table.
type Region struct {
	Code int
	Name string
}

// codesAndNames is loaded once at init and never mutated afterwards.
var codesAndNames map[int]string

func init() {
	m := make(map[int]string)
	if err := yaml.Unmarshal(regionsYAML, &m); err != nil {
		panic(fmt.Sprintf("regions: parse embedded reference table: %v", err))
	}
	codesAndNames = m
}

// Name returns the canonical name for a region code.
func Name(code int) (string, bool) {
	name, ok := codesAndNames[code]
	return name, ok
}

// Resolve validates every requested code against the reference table.
// Validation is all-or-nothing: the first unknown code fails the whole
// request before any network activity can begin.
func Resolve(codes []int) ([]Region, error) {
	resolved := make([]Region, 0, len(codes))
	for _, code := range codes {
		name, ok := codesAndNames[code]
		if !ok {
			return nil, eris.Wrapf(ErrNotFound, "region code %d", code)
		}
		resolved = append(resolved, Region{Code: code, Name: name})
	}
	return resolved, nil
}

// All returns every region in the reference table, ordered by code.
func All() []Region {
	all := make([]Region, 0, len(codesAndNames))
	for code, name := range codesAndNames {
		all = append(all, Region{Code: code, Name: name})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// URLCode returns the two-digit, zero-padded form the remote endpoint
// expects in request paths (code 5 -> "05").
func URLCode(code int) string {
	return fmt.Sprintf("%02d", code)
}
