package core

import (
	"fmt"
	"sync"
)

var (
	owners     []interface{}
	ownersLock sync.Mutex
)

// IdentifierAcquireNewID hands out the lowest free id and records its owner.
func IdentifierAcquireNewID(owner interface{}) uint32 {
	ownersLock.Lock()
	defer ownersLock.Unlock()

	if len(owners) == 0 {
		owners = make([]interface{}, 100)
	}
	length := uint32(len(owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if owners[i] == nil {
			owners[i] = owner
			return i
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	// This means the id will be length - 1
	owners = append(owners, owner)
	length = uint32(len(owners))
	return length - 1
}

// IdentifierOwner returns whoever acquired id, or nil.
func IdentifierOwner(id uint32) interface{} {
	ownersLock.Lock()
	defer ownersLock.Unlock()

	if id >= uint32(len(owners)) {
		return nil
	}
	return owners[id]
}

func IdentifierReleaseID(id uint32) error {
	ownersLock.Lock()
	defer ownersLock.Unlock()

	if len(owners) == 0 {
		err := fmt.Errorf("identifier_release_id called before initialization. identifier_acquire_new_id should have been called first. Nothing was done")
		return err
	}

	length := uint32(len(owners))
	if id >= length {
		err := fmt.Errorf("identifier_release_id: id '%d' out of range (max=%d). Nothing was done", id, length)
		return err
	}

	// Just zero out the entry, making it available for use.
	owners[id] = nil
	return nil
}
