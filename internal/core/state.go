// Package core implements the authoritative chat state machine: user
// registration, nicknames, channel membership and the recipient set of
// every broadcast. It is pure in-memory computation behind one mutex;
// transport adapters feed it protocol.Command values and fan out the
// protocol.Broadcast it returns.
package core

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/tessen/chatd/internal/domain"
	"github.com/tessen/chatd/internal/protocol"
)

// State owns every registered user and every live channel. All access
// goes through its methods; each method holds the mutex for its whole
// duration, so a command is always observed fully applied or not at
// all. Validation precedes mutation in every handler.
type State struct {
	mu       sync.Mutex
	users    map[domain.ConnID]domain.Nickname
	byNick   map[domain.Nickname]domain.ConnID
	channels map[domain.ChannelName]*domain.Channel
}

func NewState() *State {
	return &State{
		users:    make(map[domain.ConnID]domain.Nickname),
		byNick:   make(map[domain.Nickname]domain.ConnID),
		channels: make(map[domain.ChannelName]*domain.Channel),
	}
}

// Register assigns the lexicographically-smallest unused UserN nickname
// to a new connection. It never fails.
func (s *State) Register(id domain.ConnID) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick := s.nextNickname()
	s.users[id] = nick
	s.byNick[nick] = id
	log.Info().Str("module", "core.state").Int64("conn", int64(id)).Str("nick", string(nick)).Msg("user registered")
	return protocol.Connected(nick)
}

func (s *State) nextNickname() domain.Nickname {
	for i := 0; ; i++ {
		nick := domain.Nickname(fmt.Sprintf("User%d", i))
		if _, taken := s.byNick[nick]; !taken {
			return nick
		}
	}
}

// Deregister tears down a connection: channels the user owned are
// deleted, memberships elsewhere are dropped, and everyone who shared a
// channel with the user lands in the recipient set. The user is not a
// recipient of their own departure. Never fails; deregistering an
// unknown connection is a no-op broadcast.
func (s *State) Deregister(id domain.ConnID) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, ok := s.users[id]
	if !ok {
		return protocol.Disconnected("", nil)
	}

	recipients := make(nickSet)
	var doomed []domain.ChannelName
	for name, ch := range s.channels {
		switch {
		case ch.Owner() == nick:
			recipients.addAll(ch.Members())
			doomed = append(doomed, name)
		case ch.Has(nick):
			ch.Remove(nick)
			recipients.addAll(ch.Members())
		}
	}
	for _, name := range doomed {
		delete(s.channels, name)
	}
	recipients.remove(nick)
	delete(s.users, id)
	delete(s.byNick, nick)

	log.Info().Str("module", "core.state").Int64("conn", int64(id)).Str("nick", string(nick)).
		Int("channels_deleted", len(doomed)).Msg("user deregistered")
	return protocol.Disconnected(nick, recipients.slice())
}

// Rename changes a user's nickname and propagates it into every channel
// the user occupies, member set and owner field alike. Recipients are
// everyone sharing at least one channel with the user, sender included.
func (s *State) Rename(cmd protocol.Rename) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byNick[cmd.To]; taken {
		return protocol.Fail(cmd, protocol.NameAlreadyInUse)
	}
	if !domain.ValidName(cmd.To) {
		return protocol.Fail(cmd, protocol.InvalidName)
	}
	old, ok := s.users[cmd.ConnID]
	if !ok {
		return protocol.Fail(cmd, protocol.NoSuchUser)
	}

	s.users[cmd.ConnID] = cmd.To
	delete(s.byNick, old)
	s.byNick[cmd.To] = cmd.ConnID

	recipients := make(nickSet)
	for _, ch := range s.channels {
		if ch.Has(old) {
			ch.Replace(old, cmd.To)
			recipients.addAll(ch.Members())
		}
	}
	log.Debug().Str("module", "core.state").Str("old", string(old)).Str("new", string(cmd.To)).Msg("nickname changed")
	return protocol.OK(cmd, recipients.slice())
}

// Create makes a new channel whose sole member is its owner. Other
// channels are untouched. Only the owner is notified.
func (s *State) Create(cmd protocol.Create) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.ValidName(cmd.Channel) {
		return protocol.Fail(cmd, protocol.InvalidName)
	}
	if _, exists := s.channels[cmd.Channel]; exists {
		return protocol.Fail(cmd, protocol.NameAlreadyInUse)
	}

	s.channels[cmd.Channel] = domain.NewChannel(cmd.Channel, cmd.Sender, cmd.Private)
	log.Info().Str("module", "core.state").Str("channel", string(cmd.Channel)).
		Str("owner", string(cmd.Sender)).Bool("private", cmd.Private).Msg("channel created")
	return protocol.OK(cmd, []domain.Nickname{cmd.Sender})
}

// Join adds the sender to a public channel and answers with the full
// roster. Joining a channel you are already in is harmless.
func (s *State) Join(cmd protocol.Join) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[cmd.Channel]
	if !ok {
		return protocol.Fail(cmd, protocol.NoSuchChannel)
	}
	if ch.Private() {
		return protocol.Fail(cmd, protocol.JoinPrivateChannel)
	}
	ch.Add(cmd.Sender)
	return protocol.Names(cmd, ch.Members(), ch.Owner())
}

// Message computes delivery scope for a channel message: all current
// members, sender included. State is not mutated.
func (s *State) Message(cmd protocol.Message) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[cmd.Channel]
	if !ok {
		return protocol.Fail(cmd, protocol.NoSuchChannel)
	}
	sender := s.users[cmd.ConnID]
	if !ch.Has(sender) {
		return protocol.Fail(cmd, protocol.UserNotInChannel)
	}
	return protocol.OK(cmd, ch.Members())
}

// Leave removes the sender from a channel, notifying the membership as
// it stood before the removal. An owner leaving deletes the channel
// outright, whoever remains.
func (s *State) Leave(cmd protocol.Leave) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[cmd.Channel]
	if !ok {
		return protocol.Fail(cmd, protocol.NoSuchChannel)
	}
	if !ch.Has(cmd.Sender) {
		return protocol.Fail(cmd, protocol.UserNotInChannel)
	}
	recipients := ch.Members()
	ch.Remove(cmd.Sender)
	if cmd.Sender == ch.Owner() {
		delete(s.channels, cmd.Channel)
		log.Info().Str("module", "core.state").Str("channel", string(cmd.Channel)).Msg("channel deleted, owner left")
	}
	return protocol.OK(cmd, recipients)
}

// Invite adds a user to a private channel. Owner only; the answer is a
// roster broadcast to the membership after the add.
func (s *State) Invite(cmd protocol.Invite) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byNick[cmd.Target]; !ok {
		return protocol.Fail(cmd, protocol.NoSuchUser)
	}
	ch, ok := s.channels[cmd.Channel]
	if !ok {
		return protocol.Fail(cmd, protocol.NoSuchChannel)
	}
	if ch.Owner() != cmd.Sender {
		return protocol.Fail(cmd, protocol.UserNotOwner)
	}
	if !ch.Private() {
		return protocol.Fail(cmd, protocol.InviteToPublicChannel)
	}
	ch.Add(cmd.Target)
	return protocol.Names(cmd, ch.Members(), ch.Owner())
}

// Kick removes a user from a channel, notifying the membership as it
// stood before the removal. Kicking the owner, self-kick included,
// tears the whole channel down.
func (s *State) Kick(cmd protocol.Kick) protocol.Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byNick[cmd.Target]; !ok {
		return protocol.Fail(cmd, protocol.NoSuchUser)
	}
	ch, ok := s.channels[cmd.Channel]
	if !ok {
		return protocol.Fail(cmd, protocol.NoSuchChannel)
	}
	if ch.Owner() != cmd.Sender {
		return protocol.Fail(cmd, protocol.UserNotOwner)
	}
	if !ch.Has(cmd.Target) {
		return protocol.Fail(cmd, protocol.UserNotInChannel)
	}
	recipients := ch.Members()
	ch.Remove(cmd.Target)
	if cmd.Target == ch.Owner() {
		delete(s.channels, cmd.Channel)
		log.Info().Str("module", "core.state").Str("channel", string(cmd.Channel)).Msg("channel deleted, owner kicked")
	}
	return protocol.OK(cmd, recipients)
}

type nickSet map[domain.Nickname]struct{}

func (ns nickSet) addAll(nicks []domain.Nickname) {
	for _, n := range nicks {
		ns[n] = struct{}{}
	}
}

func (ns nickSet) remove(nick domain.Nickname) { delete(ns, nick) }

func (ns nickSet) slice() []domain.Nickname { return lo.Keys(ns) }
