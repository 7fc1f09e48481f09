package core

// DefaultHistoryLimit is the number of messages a room keeps.
const DefaultHistoryLimit = 500

// entry is a stored message plus its mutable reaction and read state.
type entry struct {
	msg       Message
	reactions map[string]*userSet
	readBy    *userSet
}

func newEntry(msg Message) *entry {
	msg = msg.Clone()
	e := &entry{
		reactions: make(map[string]*userSet, len(msg.Reactions)),
		readBy:    newUserSet(),
	}
	for symbol, users := range msg.Reactions {
		set := newUserSet()
		for _, id := range users {
			set.add(id)
		}
		e.reactions[symbol] = set
	}
	for _, id := range msg.ReadBy {
		e.readBy.add(id)
	}
	msg.Reactions = nil
	msg.ReadBy = nil
	e.msg = msg
	return e
}

// reactionMap converts the reaction sets into sequences.
func (e *entry) reactionMap() map[string][]string {
	out := make(map[string][]string, len(e.reactions))
	for symbol, set := range e.reactions {
		out[symbol] = set.list()
	}
	return out
}

// snapshot returns a copy of the message that shares no state with the entry.
func (e *entry) snapshot() Message {
	out := e.msg.Clone()
	out.Reactions = e.reactionMap()
	out.ReadBy = e.readBy.list()
	return out
}

// messageLog is an insertion-ordered message history capped at limit entries.
// Not safe for concurrent use; Room serializes access.
type messageLog struct {
	limit   int
	entries []*entry
	byID    map[string]*entry
}

func newMessageLog(limit int) *messageLog {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &messageLog{
		limit:   limit,
		entries: make([]*entry, 0, min(limit, 64)),
		byID:    make(map[string]*entry),
	}
}

// append stores msg at the tail and evicts from the head while the log is
// over its limit. CreatedAt never goes backwards within one log.
func (l *messageLog) append(msg Message) *entry {
	if n := len(l.entries); n > 0 {
		if last := l.entries[n-1].msg.CreatedAt; msg.CreatedAt.Before(last) {
			msg.CreatedAt = last
		}
	}

	e := newEntry(msg)
	l.entries = append(l.entries, e)
	l.byID[e.msg.ID] = e

	if over := len(l.entries) - l.limit; over > 0 {
		for _, old := range l.entries[:over] {
			if l.byID[old.msg.ID] == old {
				delete(l.byID, old.msg.ID)
			}
		}
		// Shift in place so the backing array stays bounded.
		n := copy(l.entries, l.entries[over:])
		clear(l.entries[n:])
		l.entries = l.entries[:n]
	}
	return e
}

// page skips offset messages counting back from the newest, takes up to
// limit of the next older ones and returns them oldest first.
func (l *messageLog) page(offset, limit int) []Message {
	offset = max(offset, 0)
	limit = max(limit, 0)

	end := len(l.entries) - offset
	if end <= 0 || limit == 0 {
		return []Message{}
	}
	start := max(end-limit, 0)

	out := make([]Message, 0, end-start)
	for _, e := range l.entries[start:end] {
		out = append(out, e.snapshot())
	}
	return out
}

func (l *messageLog) find(id string) (*entry, bool) {
	e, ok := l.byID[id]
	return e, ok
}

func (l *messageLog) len() int {
	return len(l.entries)
}
