package cpp

import (
	"strconv"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
)

type overloadKey struct {
	namespace string
	typeName  string
	method    string
}

// OverloadTable numbers methods that share a name. Counts persist across
// every type and input passed through the same table until Reset.
type OverloadTable struct {
	counts map[overloadKey]int
}

func NewOverloadTable() *OverloadTable {
	return &OverloadTable{counts: make(map[overloadKey]int)}
}

// Resolve returns name for the first occurrence of (namespace, typeName,
// method) and name_1, name_2, ... for each repeat.
func (o *OverloadTable) Resolve(namespace, typeName, method, name string) string {
	key := overloadKey{namespace, typeName, method}
	n, seen := o.counts[key]
	if !seen {
		o.counts[key] = 1
		return name
	}
	o.counts[key] = n + 1
	return name + "_" + strconv.Itoa(n)
}

// Reset forgets all counts.
func (o *OverloadTable) Reset() {
	clear(o.counts)
}

// Len returns the number of distinct collision keys seen.
func (o *OverloadTable) Len() int { return len(o.counts) }

// UniqueParams makes parameter names pairwise unique within one method.
func UniqueParams(names []string) []string {
	return common.UniqueNames(names)
}
