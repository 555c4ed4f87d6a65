package remote

import (
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// The wire envelope between hub and workers. Scripts travel in their text
// form with a content hash; an envelope that fails to decode or verify is
// dropped, never surfaced to the session.

type wirePayload struct {
	Generation uint16 `json:"generation"`
	Script     string `json:"script"`
	Hash       uint64 `json:"hash"`
}

type wireResult struct {
	Generation uint16      `json:"generation"`
	Script     string      `json:"script"`
	Hash       uint64      `json:"hash"`
	Frames     []sim.Frame `json:"frames"`
}

func encodePayload(s *script.Script, generation uint16) wirePayload {
	text := s.String()
	return wirePayload{
		Generation: generation,
		Script:     text,
		Hash:       xxh3.HashString(text),
	}
}

func decodeScript(text string, hash uint64) (*script.Script, bool) {
	if xxh3.HashString(text) != hash {
		return nil, false
	}
	s, err := script.Parse(strings.NewReader(text))
	if err != nil {
		return nil, false
	}
	return s, true
}
