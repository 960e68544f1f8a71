package domain

import "time"

// Preferences is the per-client subscription record. It is replaced wholesale on every update.
type Preferences struct {
	ClientID             string     `json:"-"`
	Sports               []string   `json:"sports"`
	Teams                []string   `json:"teams"`
	NotificationsEnabled bool       `json:"notificationsEnabled"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

// DefaultPreferences is returned for clients that never stored a record.
func DefaultPreferences() Preferences {
	return Preferences{
		Sports: []string{},
		Teams:  []string{},
	}
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (p Preferences) Clone() Preferences {
	out := p
	out.Sports = append([]string{}, p.Sports...)
	out.Teams = append([]string{}, p.Teams...)
	if p.UpdatedAt != nil {
		at := *p.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}
