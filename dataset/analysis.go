package dataset

// Analysis is the frozen, shared-reference header the builder produces
// and the replication engine consumes once. It owns no matrices
// outright: every slice field is a shared handle into arrays the caller
// (or an earlier builder step) allocated. Cloning is a struct copy, not
// a deep copy — the backing arrays of X, W, and R are never duplicated.
type Analysis struct {
	X       Imputations
	W       Weights
	R       ReplicateMatrix
	Columns []int
	Group   *GroupSpec
	Factor  float64
	Kind    Kind
	Options map[string]string
}

// Clone returns an independent header sharing the same underlying
// matrices and weight vectors. Mutating the returned Analysis's own
// fields (Columns, Group, Options, ...) never affects a.
func (a *Analysis) Clone() *Analysis {
	clone := *a
	clone.Columns = append([]int(nil), a.Columns...)
	if a.Group != nil {
		g := *a.Group
		g.Values = append([]float64(nil), a.Group.Values...)
		clone.Group = &g
	}
	clone.Options = make(map[string]string, len(a.Options))
	for k, v := range a.Options {
		clone.Options[k] = v
	}
	return &clone
}

// M returns the number of imputations.
func (a *Analysis) M() int {
	return len(a.X)
}
