package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeRoster is a RosterProvider whose users can be swapped between passes.
type fakeRoster struct {
	mu    sync.Mutex
	users map[UserID]string
	err   error
	calls int
}

func (r *fakeRoster) set(users map[UserID]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = users
	r.err = nil
}

func (r *fakeRoster) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *fakeRoster) ActiveUsers(ctx context.Context) (map[UserID]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	copied := make(map[UserID]string, len(r.users))
	for id, name := range r.users {
		copied[id] = name
	}
	return copied, nil
}

// fakePlatform is an in-memory guild with one category.
type fakePlatform struct {
	mu        sync.Mutex
	guild     *Guild
	category  *Category
	guildErr  error
	channels  map[ChannelHandle]string
	next      int
	creates   []string
	overrides []PermissionOverride
	deletes   []ChannelHandle
	reorders  [][]string
	lists     int
	createErr error
	listErr   error

	// createGate, when set, blocks creates until it is closed.
	createGate chan struct{}
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		guild:    &Guild{ID: "g1", Name: "Hotel", PublicRoleID: "g1"},
		category: &Category{ID: "c1", GuildID: "g1", Name: "Online"},
		channels: map[ChannelHandle]string{},
	}
}

func (p *fakePlatform) seed(names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range names {
		p.next++
		p.channels[ChannelHandle(fmt.Sprintf("seed-%d", p.next))] = name
	}
}

func (p *fakePlatform) FindGuild(ctx context.Context, guildID string) (*Guild, error) {
	if p.guildErr != nil {
		return nil, p.guildErr
	}
	if p.guild == nil || p.guild.ID != guildID {
		return nil, nil
	}
	g := *p.guild
	return &g, nil
}

func (p *fakePlatform) FindCategory(ctx context.Context, guild Guild, categoryID string) (*Category, error) {
	if p.category == nil || p.category.ID != categoryID {
		return nil, ErrNotFound
	}
	c := *p.category
	return &c, nil
}

func (p *fakePlatform) ListChannels(ctx context.Context, category Category) ([]Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists++
	if p.listErr != nil {
		return nil, p.listErr
	}
	out := make([]Channel, 0, len(p.channels))
	for handle, name := range p.channels {
		out = append(out, Channel{Handle: handle, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	for i := range out {
		out[i].Position = i
	}
	return out, nil
}

func (p *fakePlatform) CreateTextChannel(ctx context.Context, category Category, name string, override PermissionOverride) (ChannelHandle, error) {
	if p.createGate != nil {
		<-p.createGate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.creates = append(p.creates, name)
	p.overrides = append(p.overrides, override)
	if p.createErr != nil {
		return "", p.createErr
	}
	p.next++
	handle := ChannelHandle(fmt.Sprintf("ch-%d", p.next))
	p.channels[handle] = name
	return handle, nil
}

func (p *fakePlatform) DeleteChannel(ctx context.Context, handle ChannelHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletes = append(p.deletes, handle)
	if _, ok := p.channels[handle]; !ok {
		return ErrNotFound
	}
	delete(p.channels, handle)
	return nil
}

func (p *fakePlatform) ReorderChannels(ctx context.Context, category Category, ordered []Channel) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(ordered))
	for i, ch := range ordered {
		names[i] = ch.Name
	}
	p.reorders = append(p.reorders, names)
	return nil
}

// calls returns the number of mutating or listing calls seen so far.
func (p *fakePlatform) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.creates) + len(p.deletes) + len(p.reorders) + p.lists
}

func (p *fakePlatform) snapshot() (creates []string, deletes []ChannelHandle, channels map[ChannelHandle]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	channels = make(map[ChannelHandle]string, len(p.channels))
	for h, n := range p.channels {
		channels[h] = n
	}
	return append([]string(nil), p.creates...), append([]ChannelHandle(nil), p.deletes...), channels
}

// fakeLinks is a LinkingService backed by a map.
type fakeLinks struct {
	links map[UserID]*Link
	err   error
}

func (l *fakeLinks) IsLinked(ctx context.Context, id UserID) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	_, ok := l.links[id]
	return ok, nil
}

func (l *fakeLinks) GetLink(ctx context.Context, id UserID) (*Link, error) {
	return l.links[id], nil
}

// fakeProfiles is a ProfileService backed by a map.
type fakeProfiles struct {
	mu    sync.Mutex
	names map[string]string
	calls int
	delay time.Duration
}

func (p *fakeProfiles) EffectiveName(ctx context.Context, externalAccountID string) (string, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	name, ok := p.names[externalAccountID]
	if !ok {
		return "", errors.New("unknown member")
	}
	return name, nil
}
