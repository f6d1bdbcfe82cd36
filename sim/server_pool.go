package sim

import (
	"fmt"
	"strings"
)

// ServerPool tracks when each of a fixed set of identical servers becomes free.
// Queueing is implicit: a request waits for the gap between its ready time and
// the start the pool hands back.
type ServerPool struct {
	name   string
	freeAt []int64 // minute offsets, one per server, zero-indexed
}

// Assignment is the server chosen for a request and when its service starts.
type Assignment struct {
	Server int
	Start  int64
}

// NewServerPool creates a pool of size servers, all free at offset 0.
func NewServerPool(name string, size int) *ServerPool {
	if size < 1 {
		panic(fmt.Sprintf("NewServerPool(%s): size must be at least 1, got %d", name, size))
	}
	return &ServerPool{name: name, freeAt: make([]int64, size)}
}

// Assign picks the server with the smallest free-at time, lowest index on ties,
// and returns max(readyAt, freeAt) as the service start. Pool state is unchanged
// until the caller commits a duration with Occupy.
func (p *ServerPool) Assign(readyAt int64) Assignment {
	best := 0
	for i := 1; i < len(p.freeAt); i++ {
		if p.freeAt[i] < p.freeAt[best] {
			best = i
		}
	}
	return Assignment{Server: best, Start: max(readyAt, p.freeAt[best])}
}

// Occupy marks server busy until the given offset.
func (p *ServerPool) Occupy(server int, until int64) {
	if until < 0 {
		panic(fmt.Sprintf("Occupy(%s): negative free-at %d", p.name, until))
	}
	p.freeAt[server] = until
}

// FreeAt returns the offset at which server becomes free.
func (p *ServerPool) FreeAt(server int) int64 {
	return p.freeAt[server]
}

// Size returns the number of servers.
func (p *ServerPool) Size() int {
	return len(p.freeAt)
}

// Name returns the pool label used in logs and traces.
func (p *ServerPool) Name() string {
	return p.name
}

func (p *ServerPool) String() string {
	var sb strings.Builder
	sb.WriteString(p.name)
	sb.WriteString("[")
	for i, v := range p.freeAt {
		sb.WriteString(fmt.Sprint(v))
		if i < len(p.freeAt)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
