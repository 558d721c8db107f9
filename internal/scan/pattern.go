package scan

import (
	"regexp"
	"strings"
)

// keyTerminators end a captured key: whitespace, quotes, backtick, closing
// paren and '<', which covers HTML attributes, CSS url(), Markdown links and
// template literals.
const keyTerminators = `\s"'` + "`" + `)<`

// Matcher extracts asset keys that follow a fixed public base URL.
type Matcher struct {
	baseURL string
	re      *regexp.Regexp
}

// NewMatcher builds a Matcher for baseURL, which must end in "/".
func NewMatcher(baseURL string) *Matcher {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Matcher{
		baseURL: baseURL,
		re:      regexp.MustCompile(regexp.QuoteMeta(baseURL) + `([^` + keyTerminators + `]+)`),
	}
}

func (m *Matcher) BaseURL() string {
	return m.baseURL
}

// Extract returns every key referenced in content, in order of appearance,
// duplicates included. Content is scanned as a whole, not line by line.
func (m *Matcher) Extract(content []byte) []string {
	matches := m.re.FindAllSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		keys = append(keys, string(match[1]))
	}
	return keys
}

// PublicURL renders key the way it is referenced in the corpus.
func (m *Matcher) PublicURL(key string) string {
	return m.baseURL + key
}
