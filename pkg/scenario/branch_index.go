package scenario

// branchIndex holds the merged branch entries grouped by repository, in a
// deterministic order: repositories appear in order of their first branch
// entry (explicit branches first, then repositories that only contribute a
// default branch), and branches within a repository keep first-definition
// order with synthesized default branches appended last.
type branchIndex struct {
	repoOrder []repoKey
	byRepo    map[repoKey]*repoBranchSet
}

type repoBranchSet struct {
	order  []string
	byName map[string]Branch
}

func newBranchIndex() *branchIndex {
	return &branchIndex{byRepo: make(map[repoKey]*repoBranchSet)}
}

// group returns the branch set for key, creating it on first use.
func (ix *branchIndex) group(key repoKey) *repoBranchSet {
	if set, ok := ix.byRepo[key]; ok {
		return set
	}
	set := &repoBranchSet{byName: make(map[string]Branch)}
	ix.byRepo[key] = set
	ix.repoOrder = append(ix.repoOrder, key)
	return set
}

// lookup returns the branch set for key, or nil when the repository has no
// branches.
func (ix *branchIndex) lookup(key repoKey) *repoBranchSet {
	return ix.byRepo[key]
}

// all flattens the index into a single ordered branch list.
func (ix *branchIndex) all() []Branch {
	var branches []Branch
	for _, key := range ix.repoOrder {
		set := ix.byRepo[key]
		for _, name := range set.order {
			branches = append(branches, set.byName[name])
		}
	}
	return branches
}

func (s *repoBranchSet) get(name string) (Branch, bool) {
	branch, ok := s.byName[name]
	return branch, ok
}

// put inserts or replaces a branch, preserving first-insertion order.
func (s *repoBranchSet) put(branch Branch) {
	if _, ok := s.byName[branch.Name]; !ok {
		s.order = append(s.order, branch.Name)
	}
	s.byName[branch.Name] = branch
}
