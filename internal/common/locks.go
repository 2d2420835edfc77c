package common

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex hands out one mutex per key so that read-modify-write sequences
// against the same table or order are serialized while independent keys stay
// fully parallel. Mutexes are created on first use and kept for the process
// lifetime; the key space (tables plus open orders) is small.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock blocks until the key's mutex is held and returns the unlock func.
func (k *KeyedMutex) Lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}

// TryLock attempts to take the key's mutex without blocking. Callers that can
// retry later (the alert monitor tick) use this instead of waiting on an
// in-flight order operation.
func (k *KeyedMutex) TryLock(key string) (func(), bool) {
	m := k.get(key)
	if !m.TryLock() {
		return nil, false
	}
	return m.Unlock, true
}

// TableKey is the lock key for a table id.
func TableKey(tableID int) string {
	return fmt.Sprintf("table:%d", tableID)
}

// OrderKey is the lock key for an order id.
func OrderKey(orderID uuid.UUID) string {
	return fmt.Sprintf("order:%s", orderID.String())
}
