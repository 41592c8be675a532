package domain

import "slices"

type ChannelName string

// Channel owns the membership set, the owner identity and the privacy
// flag for one channel. Name and privacy are fixed at construction;
// ownership never transfers, though the owner's nickname may be
// rewritten by a rename.
type Channel struct {
	name    ChannelName
	owner   Nickname
	private bool
	members map[Nickname]struct{}
}

// NewChannel constructs a channel whose sole member is its owner.
func NewChannel(name ChannelName, owner Nickname, private bool) *Channel {
	return &Channel{
		name:    name,
		owner:   owner,
		private: private,
		members: map[Nickname]struct{}{owner: {}},
	}
}

func (c *Channel) Name() ChannelName { return c.name }
func (c *Channel) Owner() Nickname   { return c.owner }
func (c *Channel) Private() bool     { return c.private }

func (c *Channel) Has(nick Nickname) bool {
	_, ok := c.members[nick]
	return ok
}

// Add is idempotent for existing members.
func (c *Channel) Add(nick Nickname) {
	c.members[nick] = struct{}{}
}

func (c *Channel) Remove(nick Nickname) {
	delete(c.members, nick)
}

// Replace rewrites a member's nickname in place, keeping the owner
// field consistent when the owner is the one renamed. The member's
// role does not change.
func (c *Channel) Replace(old, nick Nickname) {
	if !c.Has(old) {
		return
	}
	delete(c.members, old)
	c.members[nick] = struct{}{}
	if c.owner == old {
		c.owner = nick
	}
}

// Members returns a sorted copy of the member set. Mutating the result
// does not affect the channel.
func (c *Channel) Members() []Nickname {
	out := make([]Nickname, 0, len(c.members))
	for nick := range c.members {
		out = append(out, nick)
	}
	slices.Sort(out)
	return out
}

func (c *Channel) MemberCount() int { return len(c.members) }
