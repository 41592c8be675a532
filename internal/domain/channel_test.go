package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannel_OwnerIsSoleInitialMember(t *testing.T) {
	req := require.New(t)

	ch := NewChannel("lobby", "Ada", false)

	req.Equal(ChannelName("lobby"), ch.Name())
	req.Equal(Nickname("Ada"), ch.Owner())
	req.False(ch.Private())
	req.Equal([]Nickname{"Ada"}, ch.Members())
}

func TestChannel_AddRemoveIdempotent(t *testing.T) {
	req := require.New(t)
	ch := NewChannel("lobby", "Ada", false)

	ch.Add("Bob")
	ch.Add("Bob")
	req.Equal([]Nickname{"Ada", "Bob"}, ch.Members())
	req.Equal(2, ch.MemberCount())

	ch.Remove("Bob")
	ch.Remove("Bob")
	req.Equal([]Nickname{"Ada"}, ch.Members())
	req.False(ch.Has("Bob"))
}

func TestChannel_Replace_RewritesOwnerToo(t *testing.T) {
	req := require.New(t)
	ch := NewChannel("lobby", "Ada", true)
	ch.Add("Bob")

	// Renaming a plain member leaves the owner alone
	ch.Replace("Bob", "Robert")
	req.Equal(Nickname("Ada"), ch.Owner())
	req.Equal([]Nickname{"Ada", "Robert"}, ch.Members())

	// Renaming the owner moves the owner field with the membership
	ch.Replace("Ada", "Lovelace")
	req.Equal(Nickname("Lovelace"), ch.Owner())
	req.True(ch.Has("Lovelace"))
	req.False(ch.Has("Ada"))

	// Replacing an absent nickname is a no-op
	ch.Replace("Nobody", "Ghost")
	req.Equal([]Nickname{"Lovelace", "Robert"}, ch.Members())
}

func TestChannel_MembersIsACopy(t *testing.T) {
	req := require.New(t)
	ch := NewChannel("lobby", "Ada", false)

	members := ch.Members()
	members[0] = "Mallory"

	req.Equal([]Nickname{"Ada"}, ch.Members())
}
