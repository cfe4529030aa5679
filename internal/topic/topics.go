package topic

import (
	"sort"
	"strings"
	"unicode"
)

// Keywords that mark each content category
var categoryTopics = map[string][]string{
	"games":       {"game", "games", "jogo", "jogos", "gameplay", "console", "playstation", "xbox", "nintendo", "steam", "rpg", "fps"},
	"filmes":      {"filme", "filmes", "cinema", "bilheteria", "diretor", "trailer oficial", "estreia", "movie", "film", "box office"},
	"series":      {"série", "séries", "temporada", "episódio", "streaming", "netflix", "hbo", "season", "episode"},
	"tecnologia":  {"tecnologia", "smartphone", "iphone", "android", "chip", "inteligência artificial", "software", "hardware", "gadget", "startup"},
	"hqs":         {"anime", "mangá", "manga", "quadrinhos", "hq", "marvel comics", "dc comics", "crunchyroll", "one piece"},
	"cultura-pop": {"celebridade", "cosplay", "comic con", "ccxp", "convenção", "fandom"},
}

// ExtractTopics lists the categories whose keywords appear in content,
// sorted by name.
func ExtractTopics(content string) []string {
	content = strings.ToLower(content)
	var found []string

	for topic, keywords := range categoryTopics {
		for _, keyword := range keywords {
			if containsWord(content, keyword) {
				found = append(found, topic)
				break
			}
		}
	}

	sort.Strings(found)
	return found
}

// DetectCategory returns the category with the most keyword hits, or
// "cultura-pop" when nothing matches. Ties go to the name that sorts first.
func DetectCategory(content string) string {
	content = strings.ToLower(content)
	best, bestHits := "cultura-pop", 0

	names := make([]string, 0, len(categoryTopics))
	for name := range categoryTopics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		hits := 0
		for _, keyword := range categoryTopics[name] {
			if containsWord(content, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = name, hits
		}
	}
	return best
}

// containsWord reports whether keyword occurs in content on word boundaries.
func containsWord(content, keyword string) bool {
	for start := 0; ; {
		i := strings.Index(content[start:], keyword)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(keyword)
		if boundaryBefore(content, i) && boundaryAfter(content, end) {
			return true
		}
		start = i + 1
		if start >= len(content) {
			return false
		}
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	for _, r := range s[i:] {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}
	return true
}

func lastRune(s string) rune {
	runes := []rune(s)
	return runes[len(runes)-1]
}

// Words lowercases text and splits it on anything that is not a letter or
// digit.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TopKeywords returns up to limit words longer than three characters that
// are not stop words and occur more than once, most frequent first. Ties keep
// first-appearance order.
func TopKeywords(text string, stopWords map[string]bool, limit int) []string {
	counts := make(map[string]int)
	var order []string

	for _, w := range Words(text) {
		if len([]rune(w)) <= 3 || stopWords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	var keywords []string
	for _, w := range order {
		if limit > 0 && len(keywords) >= limit {
			break
		}
		if counts[w] > 1 {
			keywords = append(keywords, w)
		}
	}
	return keywords
}
