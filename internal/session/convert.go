package session

import (
	"github.com/samber/lo"

	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

func messageView(m core.Message) proto.Message {
	reactions := m.Reactions
	if reactions == nil {
		reactions = map[string][]string{}
	}
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []string{}
	}
	return proto.Message{
		ID:          m.ID,
		RoomID:      m.Room,
		Text:        m.Text,
		Attachments: attachmentViews(m.Attachments),
		Sender: proto.Sender{
			UserID:      m.Sender.UserID,
			DisplayName: m.Sender.DisplayName,
		},
		CreatedAt: m.CreatedAt.UnixMilli(),
		Reactions: reactions,
		ReadBy:    readBy,
		Private:   m.Private,
		To:        m.To,
	}
}

func messageViews(msgs []core.Message) []proto.Message {
	return lo.Map(msgs, func(m core.Message, _ int) proto.Message {
		return messageView(m)
	})
}

func attachmentViews(atts []core.Attachment) []proto.Attachment {
	return lo.Map(atts, func(a core.Attachment, _ int) proto.Attachment {
		return proto.Attachment{URL: a.URL, Type: a.Type}
	})
}

func attachmentsFromWire(atts []proto.Attachment) []core.Attachment {
	return lo.Map(atts, func(a proto.Attachment, _ int) core.Attachment {
		return core.Attachment{URL: a.URL, Type: a.Type}
	})
}

func identityView(id core.Identity) proto.Identity {
	return proto.Identity{
		UserID:        id.UserID,
		DisplayName:   id.DisplayName,
		ConnectionRef: id.ConnID,
		CurrentRoom:   id.CurrentRoom,
	}
}

func presenceViews(snapshot []core.Presence) []proto.Presence {
	return lo.Map(snapshot, func(p core.Presence, _ int) proto.Presence {
		return proto.Presence{
			UserID:        p.UserID,
			DisplayName:   p.DisplayName,
			ConnectionRef: p.ConnID,
		}
	})
}
