// Package domain contains the chat entities and their meta-data.
// No transport or lifecycle logic lives here.
package domain

// ConnID identifies one live client connection. The transport layer
// assigns it; the core never invents one.
type ConnID int64

type Nickname string

// User binds a connection to its current display name. Exactly one
// nickname per connection at any time.
type User struct {
	Conn     ConnID   `json:"conn"`
	Nickname Nickname `json:"nickname"`
}
