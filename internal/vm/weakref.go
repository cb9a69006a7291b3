package vm

import "github.com/chille/eel/api"

// weakrefNode is a single entry on an object's weak chain. Its prev/next
// back-pointers let the owning Value unlink its own node in O(1) without
// scanning the chain, standing in for the spec's "Weakref Node" back index.
type weakrefNode struct {
	target *Object
	prev   *weakrefNode
	next   *weakrefNode

	// unwired is set once the node's target has been destroyed (or the
	// node itself detached), so double-detach is detectable.
	unwired bool
}

// MakeWeakRef appends a fresh weakref node to target's weak_head and
// returns a Value wrapping it. target must not be nil.
func (e *Engine) MakeWeakRef(target *Object) api.Value {
	n := &weakrefNode{target: target}
	n.next = target.weakHead
	if target.weakHead != nil {
		target.weakHead.prev = n
	}
	target.weakHead = n
	return api.NewWeakRef(n)
}

// DerefWeakRef returns a new owning objref Value (own+1'd) for the node's
// current target, or api.Nil if the node is unwired or its target has
// already been zeroed (I2). The owning copy itself is built through
// Engine.Copy so every own+1 of a live target flows through one place.
func (e *Engine) DerefWeakRef(v api.Value) api.Value {
	n, ok := v.Handle().(*weakrefNode)
	if !ok || n == nil || n.unwired || n.target == nil {
		return api.Nil
	}
	return e.Copy(api.NewObjRef(n.target))
}

// DetachWeakRef unlinks v's node using its back-pointers. Detaching an
// already-unwired node is idempotent but reported via ok=false so a caller
// expecting exactly-once detach (P2) can catch a double-detach bug.
func (e *Engine) DetachWeakRef(v api.Value) (ok bool) {
	n, isWeak := v.Handle().(*weakrefNode)
	if !isWeak || n == nil {
		return false
	}
	if n.unwired {
		return false
	}
	e.unlinkWeakNode(n)
	n.unwired = true
	n.target = nil
	return true
}

func (e *Engine) unlinkWeakNode(n *weakrefNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else if n.target != nil && n.target.weakHead == n {
		n.target.weakHead = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
}

// clearWeakrefs walks o's weak_head, zeroing every node's target pointer
// (marking it unwired) and clearing the chain. Called once, during
// destroy, before the class refcount is decremented.
func (e *Engine) clearWeakrefs(o *Object) {
	n := o.weakHead
	for n != nil {
		next := n.next
		n.unwired = true
		n.target = nil
		n.prev, n.next = nil, nil
		n = next
	}
	o.weakHead = nil
}
