package protocol

import "github.com/tessen/chatd/internal/domain"

// Command is the tagged union over everything a client can ask the
// server to do. A Broadcast echoes the command that produced it so the
// transport can correlate responses.
type Command interface {
	Conn() domain.ConnID
	Kind() string
}

// Rename asks to change the sender's nickname.
type Rename struct {
	ConnID domain.ConnID
	From   domain.Nickname
	To     domain.Nickname
}

// Create asks to create a channel owned by the sender.
type Create struct {
	ConnID  domain.ConnID
	Sender  domain.Nickname
	Channel domain.ChannelName
	Private bool
}

// Join asks to enter a public channel.
type Join struct {
	ConnID  domain.ConnID
	Sender  domain.Nickname
	Channel domain.ChannelName
}

// Message carries an opaque body to every member of a channel. The
// sender is resolved from the connection; the core never inspects or
// size-limits the body.
type Message struct {
	ConnID  domain.ConnID
	Channel domain.ChannelName
	Body    string
}

// Leave asks to exit a channel. An owner leaving deletes the channel.
type Leave struct {
	ConnID  domain.ConnID
	Sender  domain.Nickname
	Channel domain.ChannelName
}

// Invite asks to add a user to a private channel. Owner only.
type Invite struct {
	ConnID  domain.ConnID
	Sender  domain.Nickname
	Channel domain.ChannelName
	Target  domain.Nickname
}

// Kick asks to remove a user from a channel. Owner only; kicking the
// owner (self included) tears the channel down.
type Kick struct {
	ConnID  domain.ConnID
	Sender  domain.Nickname
	Channel domain.ChannelName
	Target  domain.Nickname
}

func (c Rename) Conn() domain.ConnID  { return c.ConnID }
func (c Create) Conn() domain.ConnID  { return c.ConnID }
func (c Join) Conn() domain.ConnID    { return c.ConnID }
func (c Message) Conn() domain.ConnID { return c.ConnID }
func (c Leave) Conn() domain.ConnID   { return c.ConnID }
func (c Invite) Conn() domain.ConnID  { return c.ConnID }
func (c Kick) Conn() domain.ConnID    { return c.ConnID }

func (Rename) Kind() string  { return "rename" }
func (Create) Kind() string  { return "create" }
func (Join) Kind() string    { return "join" }
func (Message) Kind() string { return "message" }
func (Leave) Kind() string   { return "leave" }
func (Invite) Kind() string  { return "invite" }
func (Kick) Kind() string    { return "kick" }
