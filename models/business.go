package models

import (
	"bytes"
	"encoding/json"
)

// AbsentMarker is the wire value for a signal the directory explicitly lacks.
const AbsentMarker = "NO_TIENE"

type presenceState uint8

const (
	presenceUnresolved presenceState = iota
	presenceAbsent
	presencePresent
)

// Presence records whether an optional contact signal exists.
// The zero value means "not resolved yet"; the resolver must replace it with
// Present or Absent before the profile leaves it.
type Presence struct {
	state presenceState
	value string
}

func Present(value string) Presence { return Presence{state: presencePresent, value: value} }
func Absent() Presence              { return Presence{state: presenceAbsent} }

// PresenceOf maps an optional directory field to Present/Absent.
func PresenceOf(value string) Presence {
	if value == "" {
		return Absent()
	}
	return Present(value)
}

func (p Presence) IsResolved() bool { return p.state != presenceUnresolved }
func (p Presence) IsPresent() bool  { return p.state == presencePresent }
func (p Presence) IsAbsent() bool   { return p.state == presenceAbsent }
func (p Presence) Value() string    { return p.value }

func (p Presence) String() string {
	switch p.state {
	case presencePresent:
		return p.value
	case presenceAbsent:
		return AbsentMarker
	default:
		return "<unresolved>"
	}
}

func (p Presence) MarshalJSON() ([]byte, error) {
	switch p.state {
	case presencePresent:
		return json.Marshal(p.value)
	case presenceAbsent:
		return json.Marshal(AbsentMarker)
	default:
		return []byte("null"), nil
	}
}

func (p *Presence) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Presence{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == AbsentMarker {
		*p = Absent()
		return nil
	}
	*p = PresenceOf(s)
	return nil
}

// BusinessProfile is the normalized directory record for one business.
type BusinessProfile struct {
	Name          string   `json:"nombre"`
	Address       string   `json:"direccion"`
	Phone         Presence `json:"telefono"`
	Website       Presence `json:"web"`
	AutoResponder Presence `json:"bot"` // automated reply channel (chatbot / WhatsApp bot)
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviews"`
	Categories    []string `json:"categorias"`
	MapURI        string   `json:"mapa_oficial"`
}
