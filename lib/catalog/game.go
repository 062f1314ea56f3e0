package catalog

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// DefaultImage is the cover file name written next to a game's index.html.
const DefaultImage = "cover.png"

// Game is one entry of games.json. Keys the site knows about are typed,
// everything else is carried through Extra so a rewrite never drops data.
type Game struct {
	Name       string `json:"name"`
	Directory  string `json:"directory,omitempty"`
	Image      string `json:"image,omitempty"`
	ImagePath  string `json:"imagePath,omitempty"`
	Source     string `json:"source,omitempty"`
	Author     string `json:"author,omitempty"`
	AuthorLink string `json:"authorLink,omitempty"`
	URL        string `json:"url,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownKeys = []string{
	"name", "directory", "image", "imagePath",
	"source", "author", "authorLink", "url",
}

// gameFields has the same layout as Game without its methods.
type gameFields Game

func (g *Game) UnmarshalJSON(data []byte) error {
	var fields gameFields
	err := json.Unmarshal(data, &fields)
	if err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	err = json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	for _, k := range knownKeys {
		delete(raw, k)
	}

	*g = Game(fields)
	g.Extra = nil
	if len(raw) > 0 {
		g.Extra = raw
	}
	return nil
}

func (g Game) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(gameFields(g))
	if err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if len(g.Extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(g.Extra))
	for k := range g.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	// splice the extra keys in before the closing brace
	out = out[:len(out)-1]
	for _, k := range keys {
		quoted, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, ',')
		out = append(out, quoted...)
		out = append(out, ':')
		out = append(out, g.Extra[k]...)
	}
	out = append(out, '}')
	return out, nil
}

// Clone returns a copy that shares no mutable state with g.
func (g Game) Clone() Game {
	if g.Extra != nil {
		extra := make(map[string]json.RawMessage, len(g.Extra))
		for k, v := range g.Extra {
			extra[k] = slices.Clone(v)
		}
		g.Extra = extra
	}
	return g
}

func (g Game) String() string {
	var b strings.Builder
	b.WriteString(g.Name)
	if g.Directory != "" {
		b.WriteString(" (")
		b.WriteString(g.Directory)
		b.WriteString(")")
	}
	return b.String()
}
