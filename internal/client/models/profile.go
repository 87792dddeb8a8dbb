package models

import (
	"encoding/json"
	"slices"
	"time"
)

const (
	MembershipFree = "free"

	// OnlineWindow is how recently a user must have been active to count as online.
	OnlineWindow = 15 * time.Minute
)

// Profile is the dating-app-facing record of a user.
type Profile struct {
	ID             string
	Name           string
	Age            int
	Gender         string
	Bio            string
	Location       string
	PhotoURLs      []string
	Interests      []string
	IsVerified     bool
	MembershipType string
	CreatedAt      time.Time
	LastActive     time.Time
}

// NewProfile returns a free-tier profile created and last active at now.
func NewProfile(id, name string, age int, gender string, now time.Time) *Profile {
	return &Profile{
		ID:             id,
		Name:           name,
		Age:            age,
		Gender:         gender,
		PhotoURLs:      []string{},
		Interests:      []string{},
		MembershipType: MembershipFree,
		CreatedAt:      now,
		LastActive:     now,
	}
}

func (p *Profile) IsOnline() bool {
	return p.IsOnlineAt(time.Now())
}

func (p *Profile) IsOnlineAt(now time.Time) bool {
	return now.Sub(p.LastActive) < OnlineWindow
}

func (p *Profile) IsPremium() bool {
	return p.MembershipType != MembershipFree
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.PhotoURLs = slices.Clone(p.PhotoURLs)
	c.Interests = slices.Clone(p.Interests)
	return &c
}

type profileDoc struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	Bio            string   `json:"bio"`
	Location       string   `json:"location"`
	PhotoURLs      []string `json:"photo_urls"`
	Interests      []string `json:"interests"`
	IsVerified     bool     `json:"is_verified"`
	CreatedAt      int64    `json:"created_at"`
	LastActive     int64    `json:"last_active"`
	MembershipType string   `json:"membership_type"`
}

// ToTransport encodes the profile as its JSON document. Timestamps become
// whole epoch seconds.
func (p *Profile) ToTransport() ([]byte, error) {
	doc := profileDoc{
		ID:             p.ID,
		Name:           p.Name,
		Age:            p.Age,
		Gender:         p.Gender,
		Bio:            p.Bio,
		Location:       p.Location,
		PhotoURLs:      nonNil(p.PhotoURLs),
		Interests:      nonNil(p.Interests),
		IsVerified:     p.IsVerified,
		CreatedAt:      epochSeconds(p.CreatedAt),
		LastActive:     epochSeconds(p.LastActive),
		MembershipType: p.MembershipType,
	}
	return json.Marshal(doc)
}

// ProfileFromTransport decodes a profile document. id, name, age, gender,
// bio, location, photo_urls and interests are required; the rest default.
func ProfileFromTransport(data []byte) (*Profile, error) {
	o, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Profile{
		ID:         o.string("id"),
		Name:       o.string("name"),
		Age:        o.int("age"),
		Gender:     o.string("gender"),
		Bio:        o.string("bio"),
		Location:   o.string("location"),
		PhotoURLs:  o.strings("photo_urls"),
		Interests:  o.strings("interests"),
		IsVerified: o.optionalBool("is_verified", false),

		MembershipType: o.optionalString("membership_type", MembershipFree),
		CreatedAt:      now,
		LastActive:     now,
	}
	if o.err != nil {
		return nil, o.err
	}
	if t, ok := o.optionalTime("created_at"); ok {
		p.CreatedAt = t
	}
	if t, ok := o.optionalTime("last_active"); ok {
		p.LastActive = t
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
