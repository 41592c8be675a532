package protocol

import (
	"slices"

	"github.com/tessen/chatd/internal/domain"
)

type BroadcastKind int

const (
	KindConnected BroadcastKind = iota
	KindDisconnected
	KindOK
	KindNames
	KindError
)

// Broadcast is the core's answer to one command (or lifecycle event):
// who must be told, and what. Recipients are deduplicated and sorted;
// delivery order across recipients is not part of the contract.
type Broadcast struct {
	Kind       BroadcastKind
	Command    Command // nil for Connected / Disconnected
	Nickname   domain.Nickname
	Recipients []domain.Nickname
	Owner      domain.Nickname // roster broadcasts only
	Reason     Reason          // KindError only
}

// Connected announces a freshly registered user to themselves.
func Connected(nick domain.Nickname) Broadcast {
	return Broadcast{Kind: KindConnected, Nickname: nick, Recipients: []domain.Nickname{nick}}
}

// Disconnected announces a departure to everyone who shared a channel
// with the vacated nickname.
func Disconnected(nick domain.Nickname, recipients []domain.Nickname) Broadcast {
	return Broadcast{Kind: KindDisconnected, Nickname: nick, Recipients: dedup(recipients)}
}

// OK reports a successful command to the given recipients.
func OK(cmd Command, recipients []domain.Nickname) Broadcast {
	return Broadcast{Kind: KindOK, Command: cmd, Recipients: dedup(recipients)}
}

// Names reports a successful join or invite together with the full
// channel roster and the owner's nickname.
func Names(cmd Command, recipients []domain.Nickname, owner domain.Nickname) Broadcast {
	return Broadcast{Kind: KindNames, Command: cmd, Recipients: dedup(recipients), Owner: owner}
}

// Fail reports a rejected command back to its sender only.
func Fail(cmd Command, reason Reason) Broadcast {
	return Broadcast{Kind: KindError, Command: cmd, Reason: reason}
}

func dedup(nicks []domain.Nickname) []domain.Nickname {
	out := slices.Clone(nicks)
	slices.Sort(out)
	return slices.Compact(out)
}
