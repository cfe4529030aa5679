package persona

import (
	"strings"

	"github.com/julienpequegnot/newsforge/internal/config"
)

// Persona is an editorial voice.
type Persona int

const (
	Games Persona = iota
	Cinema
	Tech
)

var names = [...]string{"games", "cinema", "tech"}

func All() []Persona {
	return []Persona{Games, Cinema, Tech}
}

func (p Persona) String() string {
	if p < Games || p > Tech {
		return names[Games]
	}
	return names[p]
}

// Parse reports whether name is a known persona.
func Parse(name string) (Persona, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Persona(i), true
		}
	}
	return Games, false
}

type Profile struct {
	Tone       string
	Style      string
	FocusAreas []string
}

// Registry maps each persona to its profile. It is read-only once built.
type Registry struct {
	profiles [len(names)]Profile
}

// NewRegistry builds a registry from configuration. A persona missing from
// the table borrows the games profile.
func NewRegistry(table map[string]config.PersonaConfig) *Registry {
	r := &Registry{}
	fallback := table[names[Games]]
	for _, p := range All() {
		pc, ok := table[p.String()]
		if !ok {
			pc = fallback
		}
		r.profiles[p] = Profile{
			Tone:       pc.Tone,
			Style:      pc.Style,
			FocusAreas: append([]string(nil), pc.Focus...),
		}
	}
	return r
}

func (r *Registry) Profile(p Persona) Profile {
	if p < Games || p > Tech {
		p = Games
	}
	return r.profiles[p]
}

// categoryPersonas is checked in order; the first key contained in the
// category wins.
var categoryPersonas = []struct {
	key     string
	persona Persona
}{
	{"games", Games},
	{"jogos", Games},
	{"gaming", Games},
	{"esports", Games},
	{"filme", Cinema},
	{"cinema", Cinema},
	{"série", Cinema},
	{"series", Cinema},
	{"tv", Cinema},
	{"streaming", Cinema},
	{"tecnologia", Tech},
	{"tech", Tech},
	{"gadget", Tech},
	{"hardware", Tech},
	{"software", Tech},
	{"ia", Tech},
	{"ai", Tech},
}

// SuggestForCategory picks the persona that best fits a content category.
func SuggestForCategory(category string) Persona {
	category = strings.ToLower(category)
	for _, cp := range categoryPersonas {
		if strings.Contains(category, cp.key) {
			return cp.persona
		}
	}
	return Games
}
