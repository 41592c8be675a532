package core

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/tessen/chatd/internal/domain"
)

// ChannelInfo is a read-only view of one channel for inspection APIs.
type ChannelInfo struct {
	Name        domain.ChannelName `json:"name"`
	Owner       domain.Nickname    `json:"owner"`
	MemberCount int                `json:"member_count"`
	Private     bool               `json:"private"`
}

// RegisteredUsers returns the nicknames of every live user, sorted.
func (s *State) RegisteredUsers() []domain.Nickname {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := lo.Keys(s.byNick)
	slices.Sort(out)
	return out
}

// Users snapshots every registered user, ordered by connection id.
func (s *State) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := lo.MapToSlice(s.users, func(id domain.ConnID, nick domain.Nickname) domain.User {
		return domain.User{Conn: id, Nickname: nick}
	})
	slices.SortFunc(out, func(a, b domain.User) int {
		return cmp.Compare(a.Conn, b.Conn)
	})
	return out
}

// Channels returns the names of every live channel, sorted.
func (s *State) Channels() []domain.ChannelName {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := lo.Keys(s.channels)
	slices.Sort(out)
	return out
}

// MembersOf returns the sorted member roster of a channel, or an empty
// slice when no such channel exists.
func (s *State) MembersOf(name domain.ChannelName) []domain.Nickname {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[name]
	if !ok {
		return []domain.Nickname{}
	}
	return ch.Members()
}

// OwnerOf reports the owner of a channel, if it exists.
func (s *State) OwnerOf(name domain.ChannelName) (domain.Nickname, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[name]
	if !ok {
		return "", false
	}
	return ch.Owner(), true
}

// Nickname resolves a connection to its current nickname.
func (s *State) Nickname(id domain.ConnID) (domain.Nickname, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nick, ok := s.users[id]
	return nick, ok
}

// ConnID resolves a nickname to its connection. This is the reverse
// index the mutation paths keep in lockstep with the forward map.
func (s *State) ConnID(nick domain.Nickname) (domain.ConnID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byNick[nick]
	return id, ok
}

// ChannelList snapshots every live channel for the inspection API.
func (s *State) ChannelList() []ChannelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := lo.MapToSlice(s.channels, func(name domain.ChannelName, ch *domain.Channel) ChannelInfo {
		return ChannelInfo{
			Name:        name,
			Owner:       ch.Owner(),
			MemberCount: ch.MemberCount(),
			Private:     ch.Private(),
		}
	})
	slices.SortFunc(out, func(a, b ChannelInfo) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
