package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	req := require.New(t)

	valid := []string{"User0", "lobby", "a", "ÉloDie", "комната", "42"}
	for _, name := range valid {
		req.True(ValidName(name), "expected %q to be valid", name)
	}

	invalid := []string{"", " ", "two words", "semi;colon", "tab\tname", "dash-name", "under_score", "émoji😀"}
	for _, name := range invalid {
		req.False(ValidName(name), "expected %q to be invalid", name)
	}

	// Works across both name domains
	req.True(ValidName(Nickname("Ada")))
	req.True(ValidName(ChannelName("vip")))
}
