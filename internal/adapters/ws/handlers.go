package ws

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tessen/chatd/internal/domain"
	"github.com/tessen/chatd/internal/protocol"
)

// envelope is the inbound client frame. Field use depends on type:
//
//	{"type":"nick","name":"Ada"}
//	{"type":"create","channel":"lobby","private":false}
//	{"type":"join","channel":"lobby"}
//	{"type":"msg","channel":"lobby","body":"hi"}
//	{"type":"leave","channel":"lobby"}
//	{"type":"invite","channel":"vip","target":"User1"}
//	{"type":"kick","channel":"lobby","target":"User1"}
type envelope struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Channel string `json:"channel,omitempty"`
	Private bool   `json:"private,omitempty"`
	Target  string `json:"target,omitempty"`
	Body    string `json:"body,omitempty"`
}

// event is the outbound frame fanned out to recipients.
type event struct {
	Type    string             `json:"type"`
	Cmd     string             `json:"cmd,omitempty"`
	Nick    domain.Nickname    `json:"nick,omitempty"`
	To      domain.Nickname    `json:"to,omitempty"`
	Channel domain.ChannelName `json:"channel,omitempty"`
	From    domain.Nickname    `json:"from,omitempty"`
	Body    string             `json:"body,omitempty"`
	Members []domain.Nickname  `json:"members,omitempty"`
	Owner   domain.Nickname    `json:"owner,omitempty"`
	Reason  string             `json:"reason,omitempty"`
}

func (ctl *Controller) handleFrame(id domain.ConnID, c *chatConn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "ws").Int64("conn", int64(id)).Msg("bad frame")
		return
	}

	sender, ok := ctl.state.Nickname(id)
	if !ok {
		log.Warn().Str("module", "ws").Int64("conn", int64(id)).Msg("frame from unregistered conn")
		return
	}

	var b protocol.Broadcast
	switch env.Type {
	case "nick":
		b = ctl.state.Rename(protocol.Rename{ConnID: id, From: sender, To: domain.Nickname(env.Name)})
	case "create":
		b = ctl.state.Create(protocol.Create{ConnID: id, Sender: sender, Channel: domain.ChannelName(env.Channel), Private: env.Private})
	case "join":
		b = ctl.state.Join(protocol.Join{ConnID: id, Sender: sender, Channel: domain.ChannelName(env.Channel)})
	case "msg":
		b = ctl.state.Message(protocol.Message{ConnID: id, Channel: domain.ChannelName(env.Channel), Body: env.Body})
	case "leave":
		b = ctl.state.Leave(protocol.Leave{ConnID: id, Sender: sender, Channel: domain.ChannelName(env.Channel)})
	case "invite":
		b = ctl.state.Invite(protocol.Invite{ConnID: id, Sender: sender, Channel: domain.ChannelName(env.Channel), Target: domain.Nickname(env.Target)})
	case "kick":
		b = ctl.state.Kick(protocol.Kick{ConnID: id, Sender: sender, Channel: domain.ChannelName(env.Channel), Target: domain.Nickname(env.Target)})
	case "ping":
		ctl.sendJSON(c, event{Type: "pong"})
		return
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown frame type")
		return
	}
	ctl.deliver(id, c, b)
}

// deliver routes one broadcast. Errors go back to the sender only;
// everything else goes to each recipient's socket. A recipient whose
// buffer is full gets dropped, and their own read pump cleans up.
func (ctl *Controller) deliver(sender domain.ConnID, senderConn *chatConn, b protocol.Broadcast) {
	if b.Kind == protocol.KindError {
		if senderConn != nil {
			ctl.sendJSON(senderConn, event{Type: "error", Cmd: b.Command.Kind(), Reason: b.Reason.String()})
		}
		return
	}

	ev := encode(b)
	if mc, ok := b.Command.(protocol.Message); ok {
		// The wire command carries no sender; resolve it for the echo.
		if nick, ok := ctl.state.Nickname(mc.ConnID); ok {
			ev.From = nick
		}
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("encode broadcast")
		return
	}

	for _, nick := range b.Recipients {
		id, ok := ctl.state.ConnID(nick)
		if !ok {
			continue
		}
		conn := ctl.lookup(id)
		if conn == nil {
			continue
		}
		switch err := conn.TrySend(payload); {
		case errors.Is(err, ErrBackpressure):
			log.Warn().Str("module", "ws").Str("nick", string(nick)).Msg("recipient backpressure, dropping")
			conn.Close()
		case errors.Is(err, ErrClosed):
			// Already dropped; their read pump will deregister them.
		}
	}
}

func encode(b protocol.Broadcast) event {
	switch b.Kind {
	case protocol.KindConnected:
		return event{Type: "connected", Nick: b.Nickname}
	case protocol.KindDisconnected:
		return event{Type: "disconnected", Nick: b.Nickname}
	case protocol.KindNames:
		ev := event{Type: "names", Cmd: b.Command.Kind(), Owner: b.Owner, Members: b.Recipients}
		fillCommand(&ev, b.Command)
		return ev
	default:
		ev := event{Type: "ok", Cmd: b.Command.Kind()}
		fillCommand(&ev, b.Command)
		return ev
	}
}

func fillCommand(ev *event, cmd protocol.Command) {
	switch c := cmd.(type) {
	case protocol.Rename:
		ev.From = c.From
		ev.To = c.To
	case protocol.Create:
		ev.Channel = c.Channel
		ev.From = c.Sender
	case protocol.Join:
		ev.Channel = c.Channel
		ev.From = c.Sender
	case protocol.Message:
		ev.Type = "message"
		ev.Channel = c.Channel
		ev.Body = c.Body
	case protocol.Leave:
		ev.Channel = c.Channel
		ev.From = c.Sender
	case protocol.Invite:
		ev.Channel = c.Channel
		ev.From = c.Sender
		ev.To = c.Target
	case protocol.Kick:
		ev.Channel = c.Channel
		ev.From = c.Sender
		ev.To = c.Target
	}
}

func (ctl *Controller) sendJSON(c *chatConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
