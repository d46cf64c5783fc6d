package dao

import (
	"container/list"
)

// proposalQueue is the enumeration order of live proposals: an
// insertion-ordered set with O(1) removal by id. Ids are removed once a
// proposal is processed or cancelled; positions shift on removal, so
// lookups are by proposal id only, never by index.
// It is not safe for concurrent use; the owning ctrler serializes access.
type proposalQueue struct {
	order *list.List
	elems map[uint64]*list.Element
}

func newProposalQueue() *proposalQueue {
	return &proposalQueue{
		order: list.New(),
		elems: make(map[uint64]*list.Element),
	}
}

func (q *proposalQueue) push(id uint64) bool {
	if _, ok := q.elems[id]; ok {
		return false
	}
	q.elems[id] = q.order.PushBack(id)
	return true
}

func (q *proposalQueue) remove(id uint64) bool {
	el, ok := q.elems[id]
	if !ok {
		return false
	}
	q.order.Remove(el)
	delete(q.elems, id)
	return true
}

func (q *proposalQueue) has(id uint64) bool {
	_, ok := q.elems[id]
	return ok
}

func (q *proposalQueue) len() int {
	return q.order.Len()
}

func (q *proposalQueue) ids() []uint64 {
	ret := make([]uint64, 0, q.order.Len())
	for el := q.order.Front(); el != nil; el = el.Next() {
		ret = append(ret, el.Value.(uint64))
	}
	return ret
}
