package engine

import "fmt"

// Handle is a generation-checked reference to a GameObject owned by a Scene.
// A handle to a destroyed object never resolves, even after its slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// NilHandle never resolves.
var NilHandle = Handle{}

func (h Handle) IsNil() bool { return h.gen == 0 }

func (h Handle) String() string {
	if h.IsNil() {
		return "Handle(nil)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.gen)
}

type arenaSlot struct {
	gen uint32
	obj *GameObject
}

// nodeArena stores the scene's objects. Generations start at 1 so the zero
// Handle is always invalid.
type nodeArena struct {
	slots []arenaSlot
	free  []uint32
	live  int
}

func (a *nodeArena) insert(obj *GameObject) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot{})
	}
	slot := &a.slots[idx]
	slot.gen++
	slot.obj = obj
	a.live++
	return Handle{index: idx, gen: slot.gen}
}

func (a *nodeArena) get(h Handle) (*GameObject, bool) {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	slot := a.slots[h.index]
	if slot.gen != h.gen || slot.obj == nil {
		return nil, false
	}
	return slot.obj, true
}

func (a *nodeArena) remove(h Handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	a.slots[h.index].obj = nil
	a.free = append(a.free, h.index)
	a.live--
	return true
}

func (a *nodeArena) len() int { return a.live }
