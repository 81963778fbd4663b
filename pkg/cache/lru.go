package cache

import "container/list"

// usageList tracks key recency for capacity-bounded caches. Most recently
// used keys sit at the front. Not safe for concurrent use; the owning cache
// holds its lock around every call.
type usageList[K comparable] struct {
	order    *list.List
	elements map[K]*list.Element
}

func newUsageList[K comparable]() *usageList[K] {
	return &usageList[K]{
		order:    list.New(),
		elements: make(map[K]*list.Element),
	}
}

// touch marks key as most recently used, inserting it if absent.
func (u *usageList[K]) touch(key K) {
	if el, ok := u.elements[key]; ok {
		u.order.MoveToFront(el)
		return
	}
	u.elements[key] = u.order.PushFront(key)
}

// remove drops key from the recency order.
func (u *usageList[K]) remove(key K) {
	if el, ok := u.elements[key]; ok {
		u.order.Remove(el)
		delete(u.elements, key)
	}
}

// oldest returns the least recently used key.
func (u *usageList[K]) oldest() (K, bool) {
	var zero K
	back := u.order.Back()
	if back == nil {
		return zero, false
	}
	return back.Value.(K), true
}

func (u *usageList[K]) reset() {
	u.order.Init()
	clear(u.elements)
}
