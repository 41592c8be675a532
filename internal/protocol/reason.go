// Package protocol defines the typed commands the core accepts and the
// typed broadcasts it produces. It is the contract boundary between the
// state machine and whatever transport feeds it; nothing here touches
// sockets or bytes.
package protocol

// Reason is the closed enumeration of command failure causes. The
// transport layer maps these to user-facing text; the core never
// formats display strings.
type Reason int

const (
	InvalidName Reason = iota
	NameAlreadyInUse
	NoSuchChannel
	NoSuchUser
	UserNotInChannel
	UserNotOwner
	JoinPrivateChannel
	InviteToPublicChannel
)

var reasonNames = map[Reason]string{
	InvalidName:           "INVALID_NAME",
	NameAlreadyInUse:      "NAME_ALREADY_IN_USE",
	NoSuchChannel:         "NO_SUCH_CHANNEL",
	NoSuchUser:            "NO_SUCH_USER",
	UserNotInChannel:      "USER_NOT_IN_CHANNEL",
	UserNotOwner:          "USER_NOT_OWNER",
	JoinPrivateChannel:    "JOIN_PRIVATE_CHANNEL",
	InviteToPublicChannel: "INVITE_TO_PUBLIC_CHANNEL",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Error lets a Reason travel through error-shaped plumbing at the
// transport edge.
func (r Reason) Error() string { return r.String() }
