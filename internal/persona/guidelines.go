package persona

import (
	"fmt"
	"strings"
)

type ContentType string

const (
	Article ContentType = "article"
	News    ContentType = "news"
	Review  ContentType = "review"
	Event   ContentType = "event"
)

type Guidelines struct {
	Persona         Persona
	Type            ContentType
	Tone            string
	Style           string
	FocusAreas      []string
	VocabularyLevel string
	Structure       []string
	MinWords        int
	MaxWords        int
}

var wordBands = map[ContentType][2]int{
	Article: {400, 800},
	News:    {200, 500},
	Review:  {300, 1000},
	Event:   {150, 400},
}

var vocabulary = [...]string{
	Games:  "casual with technical gaming terms",
	Cinema: "sophisticated film criticism",
	Tech:   "technical but accessible",
}

var structures = map[Persona]map[ContentType][]string{
	Games: {
		Article: {"hook", "context", "detailed analysis", "community impact", "conclusion"},
		Review:  {"overview", "gameplay", "graphics", "sound", "pros and cons", "score"},
		News:    {"lead", "details", "context", "impact", "next steps"},
		Event:   {"highlight", "details", "how to join", "expectations"},
	},
	Cinema: {
		Article: {"cinematic opening", "cultural context", "artistic analysis", "relevance", "conclusion"},
		Review:  {"short synopsis", "direction", "performances", "technical aspects", "verdict"},
		News:    {"strong lead", "context", "details", "repercussion", "what next"},
		Event:   {"spotlight", "lineup", "tickets", "expectations"},
	},
	Tech: {
		Article: {"problem or opportunity", "technology", "technical analysis", "implications", "future"},
		Review:  {"specs", "performance", "usability", "value", "recommendation"},
		News:    {"breaking", "background", "technical analysis", "market impact", "timeline"},
		Event:   {"highlight", "agenda", "speakers", "how to join"},
	},
}

// Guidelines returns writing guidance for a persona and content type. Unknown
// content types are treated as articles.
func (r *Registry) Guidelines(p Persona, ct ContentType) Guidelines {
	band, ok := wordBands[ct]
	if !ok {
		ct = Article
		band = wordBands[Article]
	}
	prof := r.Profile(p)
	return Guidelines{
		Persona:         p,
		Type:            ct,
		Tone:            prof.Tone,
		Style:           prof.Style,
		FocusAreas:      prof.FocusAreas,
		VocabularyLevel: vocabulary[r.clamp(p)],
		Structure:       structures[r.clamp(p)][ct],
		MinWords:        band[0],
		MaxWords:        band[1],
	}
}

func (r *Registry) clamp(p Persona) Persona {
	if p < Games || p > Tech {
		return Games
	}
	return p
}

type Validation struct {
	Valid  bool
	Score  float64
	Issues []string
}

var toneWords = map[string][]string{
	"casual":       {"galera", "pessoal", "cara", "mano", "tipo"},
	"entusiasmado": {"incrível", "fantástico", "épico", "sensacional", "demais"},
	"analítico":    {"análise", "considerando", "avaliando", "observa-se", "constata-se"},
	"técnico":      {"especificações", "performance", "configuração", "sistema", "dados"},
	"informativo":  {"segundo", "dados", "anunciou", "disponível", "lançamento"},
}

var styleTerms = [...][]string{
	Games:  {"gameplay", "fps", "rpg", "mmo", "pvp", "raid", "build", "nerf", "buff"},
	Cinema: {"direção", "roteiro", "atuação", "cinematografia", "trilha", "edição"},
	Tech:   {"tecnologia", "inovação", "algoritmo", "dados", "sistema", "plataforma"},
}

// Validate checks how well a text fits a persona's article guidelines. The
// score weighs tone 0.4, style 0.4 and structure 0.2.
func (r *Registry) Validate(text string, p Persona) Validation {
	p = r.clamp(p)
	g := r.Guidelines(p, Article)
	lower := strings.ToLower(text)
	v := Validation{Valid: true}

	words := len(strings.Fields(text))
	switch {
	case words < g.MinWords:
		v.Issues = append(v.Issues, fmt.Sprintf("content too short (%d words, minimum %d)", words, g.MinWords))
		v.Valid = false
	case words > g.MaxWords:
		v.Issues = append(v.Issues, fmt.Sprintf("content too long (%d words, maximum %d)", words, g.MaxWords))
	}

	var matches, total int
	tone := strings.ToLower(g.Tone)
	for key, list := range toneWords {
		if !strings.Contains(tone, key) {
			continue
		}
		total += len(list)
		for _, w := range list {
			if strings.Contains(lower, w) {
				matches++
			}
		}
	}
	toneScore := float64(matches) / float64(max(total, 1))

	found := 0
	for _, term := range styleTerms[p] {
		if strings.Contains(lower, term) {
			found++
		}
	}
	styleScore := min(0.5+float64(found)/float64(len(styleTerms[p]))*0.3, 1.0)

	paragraphs := strings.Split(text, "\n\n")
	structureScore := 0.5
	if len(paragraphs) >= 3 {
		structureScore += 0.2
	}
	for _, para := range paragraphs {
		if strings.Contains(para, "#") {
			structureScore += 0.2
			break
		}
	}
	if len(paragraphs) >= 2 && len(paragraphs) <= 8 {
		structureScore += 0.1
	}
	structureScore = min(structureScore, 1.0)

	v.Score = min(toneScore*0.4+styleScore*0.4+structureScore*0.2, 1.0)
	if v.Score < 0.7 {
		v.Valid = false
	}
	return v
}
