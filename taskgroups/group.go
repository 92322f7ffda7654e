package taskgroups

import (
	"time"

	"github.com/jasonlai/aurora/schedcore"
)

// group is a TaskGroup (spec §3): an equivalence class of pending tasks
// sharing a group key, with at most one outstanding retry (invariant G1).
type group struct {
	key schedcore.GroupKey

	// order holds member task ids in arrival order, so PendingTask
	// iteration is stable (spec §3's PendingTask view).
	order []schedcore.TaskID
	index map[schedcore.TaskID]int

	penalty        time.Duration
	retryScheduled bool
	handle         schedcore.Handle
}

func newGroup(key schedcore.GroupKey) *group {
	return &group{
		key:   key,
		index: make(map[schedcore.TaskID]int),
	}
}

func (g *group) hasMember(id schedcore.TaskID) bool {
	_, ok := g.index[id]
	return ok
}

func (g *group) addMember(id schedcore.TaskID) {
	if g.hasMember(id) {
		return
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
}

func (g *group) removeMember(id schedcore.TaskID) {
	pos, ok := g.index[id]
	if !ok {
		return
	}
	delete(g.index, id)
	g.order = append(g.order[:pos], g.order[pos+1:]...)
	for i := pos; i < len(g.order); i++ {
		g.index[g.order[i]] = i
	}
}

func (g *group) members() []schedcore.TaskID {
	out := make([]schedcore.TaskID, len(g.order))
	copy(out, g.order)
	return out
}

func (g *group) empty() bool {
	return len(g.order) == 0
}
