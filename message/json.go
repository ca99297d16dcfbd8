package message

import (
	"encoding/json"

	tnet "badc0de.net/pkg/go-glowstone/net"
)

// TextComponent is the simplest chat component: plain text.
type TextComponent struct {
	Text string `json:"text"`
}

// TextJSON renders s as a JSON text component.
func TextJSON(s string) string {
	b, err := json.Marshal(TextComponent{Text: s})
	if err != nil {
		// Marshalling a struct of one string cannot fail.
		panic(err)
	}
	return string(b)
}

// Kick carries a JSON reason and precedes the connection being closed.
type Kick struct {
	JSON string
}

func (Kick) Kind() Kind { return KindKick }

// NewKick builds a Kick with a plain text reason.
func NewKick(reason string) Kick { return Kick{JSON: TextJSON(reason)} }

// Chat is an outbound chat line.
type Chat struct {
	JSON string
}

func (Chat) Kind() Kind { return KindChat }

func NewChat(text string) Chat { return Chat{JSON: TextJSON(text)} }

// StatusResponse describes the server for the client's server list.
type StatusResponse struct {
	JSON string
}

func (StatusResponse) Kind() Kind { return KindStatusResponse }

type StatusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type StatusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

// Status is the document carried by StatusResponse. Favicon is a data URL
// of a 64x64 PNG.
type Status struct {
	Version     StatusVersion `json:"version"`
	Players     StatusPlayers `json:"players"`
	Description TextComponent `json:"description"`
	Favicon     string        `json:"favicon,omitempty"`
}

// NewStatusResponse renders st.
func NewStatusResponse(st Status) (StatusResponse, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{JSON: string(b)}, nil
}

// Status parses the document.
func (m StatusResponse) Status() (Status, error) {
	var st Status
	err := json.Unmarshal([]byte(m.JSON), &st)
	return st, err
}

var (
	KickCodec = codecOf(
		func(buf *tnet.Buffer, m Kick) error { return buf.WriteVarString(m.JSON) },
		func(buf *tnet.Buffer) (Kick, error) {
			s, err := buf.ReadVarString()
			return Kick{JSON: s}, err
		})
	ChatCodec = codecOf(
		func(buf *tnet.Buffer, m Chat) error { return buf.WriteVarString(m.JSON) },
		func(buf *tnet.Buffer) (Chat, error) {
			s, err := buf.ReadVarString()
			return Chat{JSON: s}, err
		})
	StatusResponseCodec = codecOf(
		func(buf *tnet.Buffer, m StatusResponse) error { return buf.WriteVarString(m.JSON) },
		func(buf *tnet.Buffer) (StatusResponse, error) {
			s, err := buf.ReadVarString()
			return StatusResponse{JSON: s}, err
		})
)
