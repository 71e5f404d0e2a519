package presence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"presence-sync/core/reconcile"
)

type fakeRoster struct {
	mu    sync.Mutex
	users map[reconcile.UserID]string
	err   error
}

func (r *fakeRoster) set(users map[reconcile.UserID]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = users
}

func (r *fakeRoster) ActiveUsers(ctx context.Context) (map[reconcile.UserID]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[reconcile.UserID]string, len(r.users))
	for id, name := range r.users {
		out[id] = name
	}
	return out, nil
}

// fakeDiscord holds one guild with any number of categories.
type fakeDiscord struct {
	mu         sync.Mutex
	categories map[string]map[reconcile.ChannelHandle]string
	next       int
}

func newFakeDiscord(categories ...string) *fakeDiscord {
	d := &fakeDiscord{categories: map[string]map[reconcile.ChannelHandle]string{}}
	for _, id := range categories {
		d.categories[id] = map[reconcile.ChannelHandle]string{}
	}
	return d
}

func (d *fakeDiscord) names(category string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, name := range d.categories[category] {
		out = append(out, name)
	}
	return out
}

func (d *fakeDiscord) FindGuild(ctx context.Context, guildID string) (*reconcile.Guild, error) {
	if guildID != "1" {
		return nil, nil
	}
	return &reconcile.Guild{ID: "1", Name: "Hotel", PublicRoleID: "1"}, nil
}

func (d *fakeDiscord) FindCategory(ctx context.Context, guild reconcile.Guild, categoryID string) (*reconcile.Category, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.categories[categoryID]; !ok {
		return nil, nil
	}
	return &reconcile.Category{ID: categoryID, GuildID: guild.ID, Name: "Online"}, nil
}

func (d *fakeDiscord) ListChannels(ctx context.Context, category reconcile.Category) ([]reconcile.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []reconcile.Channel
	for handle, name := range d.categories[category.ID] {
		out = append(out, reconcile.Channel{Handle: handle, Name: name})
	}
	return out, nil
}

func (d *fakeDiscord) CreateTextChannel(ctx context.Context, category reconcile.Category, name string, override reconcile.PermissionOverride) (reconcile.ChannelHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	handle := reconcile.ChannelHandle(fmt.Sprintf("%s-%d", category.ID, d.next))
	d.categories[category.ID][handle] = name
	return handle, nil
}

func (d *fakeDiscord) DeleteChannel(ctx context.Context, handle reconcile.ChannelHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, channels := range d.categories {
		if _, ok := channels[handle]; ok {
			delete(channels, handle)
			return nil
		}
	}
	return reconcile.ErrNotFound
}

func (d *fakeDiscord) ReorderChannels(ctx context.Context, category reconcile.Category, ordered []reconcile.Channel) error {
	return nil
}

type fakeLinks struct {
	mu    sync.Mutex
	links map[reconcile.UserID]reconcile.Link
	err   error
}

func (f *fakeLinks) SetLink(ctx context.Context, id reconcile.UserID, link reconcile.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.links == nil {
		f.links = map[reconcile.UserID]reconcile.Link{}
	}
	f.links[id] = link
	return nil
}

func (f *fakeLinks) DeleteLink(ctx context.Context, id reconcile.UserID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.links[id]
	delete(f.links, id)
	return ok, nil
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
