// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportloop

import "github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"

// aliasTable is the insertion-ordered alias accumulator of
// SPEC_FULL.md §3. It is scoped to one Loop run (no global state, §9).
type aliasTable struct {
	names  []string
	byName map[string]string
	seen   map[string]bool
}

func newAliasTable() *aliasTable {
	return &aliasTable{byName: make(map[string]string), seen: make(map[string]bool)}
}

// noteReferenceType records an alias entry for refType if it is a known
// standard reference/data type and hasn't been seen yet. Custom types
// never produce an alias (SPEC_FULL.md §3).
func (a *aliasTable) noteReferenceType(refType nodeclass.StandardAlias) {
	if a.seen[refType.Name] {
		return
	}
	a.seen[refType.Name] = true
	a.names = append(a.names, refType.Name)
	a.byName[refType.Name] = refType.ID.String()
}

// snapshot returns the accumulated alias set as a plain map, suitable
// for encoder.AddAliases.
func (a *aliasTable) snapshot() map[string]string {
	out := make(map[string]string, len(a.byName))
	for k, v := range a.byName {
		out[k] = v
	}
	return out
}
