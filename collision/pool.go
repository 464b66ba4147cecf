package collision

// DefaultPoolCapacity bounds how many released instances a pool keeps.
const DefaultPoolCapacity = 2000

// Resetter is implemented by pooled values; Reset must restore the zero state.
type Resetter interface {
	Reset()
}

// Pool is a single-threaded bounded free-list. Get always hands out a reset
// value; Put drops the value when the free-list is full. A value must not be
// used after it was handed back.
type Pool[T any, PT interface {
	*T
	Resetter
}] struct {
	free     []PT
	capacity int
}

func NewPool[T any, PT interface {
	*T
	Resetter
}](capacity int) *Pool[T, PT] {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	return &Pool[T, PT]{capacity: capacity}
}

func (p *Pool[T, PT]) Get() PT {
	if p == nil || len(p.free) == 0 {
		return PT(new(T))
	}
	v := p.free[len(p.free)-1]
	p.free[len(p.free)-1] = nil
	p.free = p.free[:len(p.free)-1]
	v.Reset()
	return v
}

func (p *Pool[T, PT]) Put(v PT) {
	if p == nil || v == nil || len(p.free) >= p.capacity {
		return
	}
	v.Reset()
	p.free = append(p.free, v)
}

// Len returns the number of idle instances.
func (p *Pool[T, PT]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.free)
}

func (p *Pool[T, PT]) Cap() int {
	if p == nil {
		return 0
	}
	return p.capacity
}
