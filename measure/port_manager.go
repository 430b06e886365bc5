package measure

import (
	"fmt"
	"sync"
)

// PortManager hands out chromedriver ports so concurrent measurements do not collide
type PortManager struct {
	first int
	mu    sync.Mutex
	inUse []bool
}

// NewPortManager manages size ports starting at first
func NewPortManager(first, size int) *PortManager {
	return &PortManager{first: first, inUse: make([]bool, size)}
}

// Acquire reserves the lowest free port
func (pm *PortManager) Acquire() (int, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for i, busy := range pm.inUse {
		if !busy {
			pm.inUse[i] = true
			return pm.first + i, nil
		}
	}
	return 0, fmt.Errorf("no free chromedriver port in %d-%d", pm.first, pm.first+len(pm.inUse)-1)
}

// Release returns a port to the pool. Ports outside the pool are ignored.
func (pm *PortManager) Release(port int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if i := port - pm.first; i >= 0 && i < len(pm.inUse) {
		pm.inUse[i] = false
	}
}

// Busy is the number of ports currently reserved
func (pm *PortManager) Busy() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	n := 0
	for _, busy := range pm.inUse {
		if busy {
			n++
		}
	}
	return n
}
