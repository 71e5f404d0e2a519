package reconcile

import "sync"

// ChannelIndex maps online users to the channels this process created for
// them. It is safe for concurrent use; create callbacks write to it from
// other goroutines.
type ChannelIndex struct {
	mu      sync.Mutex
	entries map[UserID]ChannelHandle
	pending map[UserID]uint64
	ticket  uint64
}

// NewChannelIndex returns an empty index.
func NewChannelIndex() *ChannelIndex {
	return &ChannelIndex{
		entries: make(map[UserID]ChannelHandle),
		pending: make(map[UserID]uint64),
	}
}

// Put records handle for id, replacing any previous entry.
func (x *ChannelIndex) Put(id UserID, handle ChannelHandle) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries[id] = handle
	delete(x.pending, id)
}

// Reserve marks a create for id as in flight and returns its ticket.
// A later Reserve for the same id supersedes earlier tickets.
func (x *ChannelIndex) Reserve(id UserID) uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ticket++
	x.pending[id] = x.ticket
	return x.ticket
}

// Commit stores handle for id if ticket is still the live reservation.
// It returns false when the user left (or was re-reserved) while the create
// was in flight; the caller owns handle and must dispose of it.
func (x *ChannelIndex) Commit(id UserID, ticket uint64, handle ChannelHandle) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.pending[id] != ticket {
		return false
	}
	delete(x.pending, id)
	x.entries[id] = handle
	return true
}

// Release drops a reservation after a failed create.
func (x *ChannelIndex) Release(id UserID, ticket uint64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.pending[id] == ticket {
		delete(x.pending, id)
	}
}

// Remove deletes and returns the entry for id. Any in-flight reservation for
// id is cancelled as well.
func (x *ChannelIndex) Remove(id UserID) (ChannelHandle, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.pending, id)
	handle, ok := x.entries[id]
	if ok {
		delete(x.entries, id)
	}
	return handle, ok
}

// Get returns the handle for id.
func (x *ChannelIndex) Get(id UserID) (ChannelHandle, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	handle, ok := x.entries[id]
	return handle, ok
}

// Keys returns the ids with an entry, in ascending order.
func (x *ChannelIndex) Keys() []UserID {
	x.mu.Lock()
	defer x.mu.Unlock()
	ids := make([]UserID, 0, len(x.entries))
	for id := range x.entries {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Len returns the number of entries.
func (x *ChannelIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.entries)
}

// Entries returns a copy of the index.
func (x *ChannelIndex) Entries() map[UserID]ChannelHandle {
	x.mu.Lock()
	defer x.mu.Unlock()
	copied := make(map[UserID]ChannelHandle, len(x.entries))
	for id, handle := range x.entries {
		copied[id] = handle
	}
	return copied
}

// Drain empties the index and cancels every reservation, returning the
// entries that were held.
func (x *ChannelIndex) Drain() map[UserID]ChannelHandle {
	x.mu.Lock()
	defer x.mu.Unlock()
	drained := x.entries
	x.entries = make(map[UserID]ChannelHandle)
	x.pending = make(map[UserID]uint64)
	return drained
}
