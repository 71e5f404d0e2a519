package reconcile

import (
	"sort"
	"time"
)

// UserID is the opaque identity of an online user. Emulator ids are rendered
// as decimal strings.
type UserID string

// ChannelHandle is the opaque identity of a remote channel.
type ChannelHandle string

// Guild is the top-level chat container channels are created in.
type Guild struct {
	// ID is the remote guild id.
	ID string `json:"id"`

	// Name is the guild display name.
	Name string `json:"name"`

	// PublicRoleID is the role every member holds (the @everyone role).
	PublicRoleID string `json:"public_role_id"`
}

// Category is the sub-container that holds all presence channels.
type Category struct {
	// ID is the remote category id.
	ID string `json:"id"`

	// GuildID is the guild the category lives in.
	GuildID string `json:"guild_id"`

	// Name is the category display name.
	Name string `json:"name"`
}

// Channel is a text channel observed inside the category.
type Channel struct {
	Handle   ChannelHandle `json:"handle"`
	Name     string        `json:"name"`
	Position int           `json:"position"`
}

// Permission is a bit in a role permission override.
type Permission uint64

const (
	// PermissionViewChannel lets a role see the channel.
	PermissionViewChannel Permission = 1 << 10

	// PermissionSendMessages lets a role post in the channel.
	PermissionSendMessages Permission = 1 << 11
)

// PermissionOverride grants and denies permissions to one role on one channel.
type PermissionOverride struct {
	RoleID string
	Allow  Permission
	Deny   Permission
}

// ReadOnlyOverride is the override applied to every presence channel:
// the public role may view but not post.
func ReadOnlyOverride(guild Guild) PermissionOverride {
	return PermissionOverride{
		RoleID: guild.PublicRoleID,
		Allow:  PermissionViewChannel,
		Deny:   PermissionSendMessages,
	}
}

// Link is the account link between an emulator user and a Discord member.
type Link struct {
	// ExternalAccountID is the Discord user id.
	ExternalAccountID string

	// UseExternalName is the user's opt-in to show their Discord name instead
	// of the in-game one.
	UseExternalName bool
}

// Settings holds the engine's runtime configuration.
type Settings struct {
	// GuildID is the guild that owns the category.
	GuildID string

	// CategoryID is the category presence channels are created in.
	CategoryID string

	// Interval is the time between reconciliation passes.
	// Values <= 0 fall back to one second.
	Interval time.Duration

	// SortGrace is the delay between issuing creates and sorting the category.
	// Zero disables the delay.
	SortGrace time.Duration

	// RemoteTimeout bounds every fire-and-forget remote call.
	// Values <= 0 fall back to ten seconds.
	RemoteTimeout time.Duration
}

func (s Settings) interval() time.Duration {
	if s.Interval <= 0 {
		return time.Second
	}
	return s.Interval
}

func (s Settings) remoteTimeout() time.Duration {
	if s.RemoteTimeout <= 0 {
		return 10 * time.Second
	}
	return s.RemoteTimeout
}

// Snapshot is an immutable view of who is online at one instant.
type Snapshot struct {
	users map[UserID]string
}

// NewSnapshot copies users into a new snapshot.
func NewSnapshot(users map[UserID]string) Snapshot {
	copied := make(map[UserID]string, len(users))
	for id, name := range users {
		copied[id] = name
	}
	return Snapshot{users: copied}
}

// EmptySnapshot returns a snapshot with no users.
func EmptySnapshot() Snapshot {
	return Snapshot{users: map[UserID]string{}}
}

// Len returns the number of online users.
func (s Snapshot) Len() int {
	return len(s.users)
}

// Has reports whether id is online.
func (s Snapshot) Has(id UserID) bool {
	_, ok := s.users[id]
	return ok
}

// Name returns the roster name of id.
func (s Snapshot) Name(id UserID) (string, bool) {
	name, ok := s.users[id]
	return name, ok
}

// IDs returns the online user ids in ascending order.
func (s Snapshot) IDs() []UserID {
	ids := make([]UserID, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Users returns a copy of the underlying map.
func (s Snapshot) Users() map[UserID]string {
	copied := make(map[UserID]string, len(s.users))
	for id, name := range s.users {
		copied[id] = name
	}
	return copied
}

// Equal reports whether both snapshots hold the same users with the same
// names. A differing name makes the snapshots unequal even when the key
// sets match.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.users) != len(other.users) {
		return false
	}
	for id, name := range s.users {
		otherName, ok := other.users[id]
		if !ok || otherName != name {
			return false
		}
	}
	return true
}

// Diff is the membership change between two snapshots.
type Diff struct {
	// Arrived are ids present now but not before.
	Arrived []UserID `json:"arrived"`

	// Departed are ids present before but not now.
	Departed []UserID `json:"departed"`
}

// Empty reports whether no user arrived or departed.
func (d Diff) Empty() bool {
	return len(d.Arrived) == 0 && len(d.Departed) == 0
}

// Compare computes arrivals and departures by key only. Users present in both
// snapshots are ignored even if their names differ.
func Compare(previous, current Snapshot) Diff {
	diff := Diff{Arrived: []UserID{}, Departed: []UserID{}}

	for id := range current.users {
		if !previous.Has(id) {
			diff.Arrived = append(diff.Arrived, id)
		}
	}
	for id := range previous.users {
		if !current.Has(id) {
			diff.Departed = append(diff.Departed, id)
		}
	}

	sortIDs(diff.Arrived)
	sortIDs(diff.Departed)
	return diff
}

func sortIDs(ids []UserID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
}

// StopMode selects what Stop does with owned channels.
type StopMode int

const (
	// StopReload halts the scheduler and leaves channels in place.
	StopReload StopMode = iota

	// StopUnload halts the scheduler and deletes every owned channel.
	StopUnload
)

// String returns the mode name used in logs.
func (m StopMode) String() string {
	if m == StopUnload {
		return "unload"
	}
	return "reload"
}

// PassReport summarises one reconciliation pass that found a change.
type PassReport struct {
	// ID correlates log lines and archived reports of one pass.
	ID string `json:"id"`

	// StartedAt is when the pass began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the pass took, grace delay and sort included.
	Duration time.Duration `json:"duration"`

	// RosterSize is the number of online users observed.
	RosterSize int `json:"roster_size"`

	// Arrived and Departed are the membership changes that drove the pass.
	Arrived  []UserID `json:"arrived"`
	Departed []UserID `json:"departed"`

	// CreatesIssued and DeletesIssued count remote calls dispatched.
	CreatesIssued int `json:"creates_issued"`
	DeletesIssued int `json:"deletes_issued"`

	// Unowned counts departures with no index entry.
	Unowned int `json:"unowned"`

	// Names maps each arrival to the channel name requested for it.
	Names map[UserID]string `json:"names"`

	// Sorted reports whether the category sort was dispatched.
	Sorted bool `json:"sorted"`
}

// Status is a point-in-time view of the engine.
type Status struct {
	Initialized bool        `json:"initialized"`
	Running     bool        `json:"running"`
	Guild       *Guild      `json:"guild,omitempty"`
	Category    *Category   `json:"category,omitempty"`
	RosterSize  int         `json:"roster_size"`
	OwnedCount  int         `json:"owned_count"`
	Passes      uint64      `json:"passes"`
	LastPass    *PassReport `json:"last_pass,omitempty"`
}
