package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessen/chatd/internal/domain"
)

func TestBroadcast_RecipientsDeduplicatedAndSorted(t *testing.T) {
	req := require.New(t)

	cmd := Join{ConnID: 1, Sender: "Bob", Channel: "lobby"}
	b := Names(cmd, []domain.Nickname{"Bob", "Ada", "Bob", "Ada"}, "Ada")

	req.Equal(KindNames, b.Kind)
	req.Equal([]domain.Nickname{"Ada", "Bob"}, b.Recipients)
	req.Equal(domain.Nickname("Ada"), b.Owner)
	req.Equal(cmd, b.Command)
}

func TestBroadcast_ConnectedTargetsOnlyTheNewUser(t *testing.T) {
	req := require.New(t)

	b := Connected("User0")

	req.Equal(KindConnected, b.Kind)
	req.Equal([]domain.Nickname{"User0"}, b.Recipients)
}

func TestBroadcast_FailCarriesReasonAndEcho(t *testing.T) {
	req := require.New(t)

	cmd := Kick{ConnID: 3, Sender: "Ada", Channel: "lobby", Target: "Bob"}
	b := Fail(cmd, UserNotOwner)

	req.Equal(KindError, b.Kind)
	req.Equal(UserNotOwner, b.Reason)
	req.Equal(cmd, b.Command)
	req.Empty(b.Recipients)
}

func TestReason_WireNames(t *testing.T) {
	req := require.New(t)

	names := map[Reason]string{
		InvalidName:           "INVALID_NAME",
		NameAlreadyInUse:      "NAME_ALREADY_IN_USE",
		NoSuchChannel:         "NO_SUCH_CHANNEL",
		NoSuchUser:            "NO_SUCH_USER",
		UserNotInChannel:      "USER_NOT_IN_CHANNEL",
		UserNotOwner:          "USER_NOT_OWNER",
		JoinPrivateChannel:    "JOIN_PRIVATE_CHANNEL",
		InviteToPublicChannel: "INVITE_TO_PUBLIC_CHANNEL",
	}
	for reason, want := range names {
		req.Equal(want, reason.String())
		req.Equal(want, reason.Error())
	}
}
