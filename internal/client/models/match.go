package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchActive   MatchStatus = "active"
	MatchArchived MatchStatus = "archived"
	MatchBlocked  MatchStatus = "blocked"
)

// RecentWindow is how long a new match counts as recent.
const RecentWindow = 24 * time.Hour

func ParseMatchStatus(s string) (MatchStatus, error) {
	switch st := MatchStatus(s); st {
	case MatchActive, MatchArchived, MatchBlocked:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown match status %q", ErrMalformedTransport, s)
	}
}

// Match pairs two users.
type Match struct {
	ID                string
	UserID            string
	MatchedUserID     string
	MatchDate         time.Time
	LastMessageDate   *time.Time
	HasUnreadMessages bool
	Status            MatchStatus
}

func NewMatch(userID, matchedUserID string, now time.Time) *Match {
	return &Match{
		ID:            uuid.NewString(),
		UserID:        userID,
		MatchedUserID: matchedUserID,
		MatchDate:     now,
		Status:        MatchActive,
	}
}

func (m *Match) IsRecent() bool {
	return m.IsRecentAt(time.Now())
}

func (m *Match) IsRecentAt(now time.Time) bool {
	return now.Sub(m.MatchDate) < RecentWindow
}

// DaysSinceLastMessage reports whole days since the last message, and false
// when no message was exchanged yet.
func (m *Match) DaysSinceLastMessage() (int, bool) {
	return m.DaysSinceLastMessageAt(time.Now())
}

func (m *Match) DaysSinceLastMessageAt(now time.Time) (int, bool) {
	if m.LastMessageDate == nil {
		return 0, false
	}
	return int(now.Sub(*m.LastMessageDate) / (24 * time.Hour)), true
}

func (m *Match) IsActive() bool  { return m.Status == MatchActive }
func (m *Match) IsBlocked() bool { return m.Status == MatchBlocked }

type matchDoc struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	MatchedUserID     string      `json:"matched_user_id"`
	MatchDate         int64       `json:"match_date"`
	LastMessageDate   *int64      `json:"last_message_date,omitempty"`
	HasUnreadMessages bool        `json:"has_unread_messages"`
	Status            MatchStatus `json:"match_status"`
}

func (m *Match) ToTransport() ([]byte, error) {
	doc := matchDoc{
		ID:                m.ID,
		UserID:            m.UserID,
		MatchedUserID:     m.MatchedUserID,
		MatchDate:         epochSeconds(m.MatchDate),
		HasUnreadMessages: m.HasUnreadMessages,
		Status:            m.Status,
	}
	if m.LastMessageDate != nil {
		sec := epochSeconds(*m.LastMessageDate)
		doc.LastMessageDate = &sec
	}
	return json.Marshal(doc)
}

// MatchFromTransport decodes a match document. Only the three ids are
// required; match_date defaults to now and match_status to active.
func MatchFromTransport(data []byte) (*Match, error) {
	o, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	m := &Match{
		ID:                o.string("id"),
		UserID:            o.string("user_id"),
		MatchedUserID:     o.string("matched_user_id"),
		MatchDate:         time.Now().UTC(),
		HasUnreadMessages: o.optionalBool("has_unread_messages", false),
	}
	if o.err != nil {
		return nil, o.err
	}

	st, err := ParseMatchStatus(o.optionalString("match_status", string(MatchActive)))
	if err != nil {
		return nil, err
	}
	m.Status = st

	if t, ok := o.optionalTime("match_date"); ok {
		m.MatchDate = t
	}
	if t, ok := o.optionalTime("last_message_date"); ok {
		m.LastMessageDate = &t
	}
	return m, nil
}
