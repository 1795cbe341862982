package cmdmap

import (
	"fmt"
	"regexp"
	"strings"
)

// WildcardSyntax configures the open/close delimiters for named captures
// (default "{" and "}") used when compiling a handler's custom-id pattern
// into an anchored regex.
type WildcardSyntax struct {
	Open  string
	Close string
}

// DefaultWildcardSyntax matches spec.md §6's default wildcard grammar.
var DefaultWildcardSyntax = WildcardSyntax{Open: "{", Close: "}"}

// constraintPatterns maps a named constraint kind to the regex it
// compiles to. Unconstrained captures default to `\w+`; the bare `*`
// wildcard (handled separately in Compile) captures one `\S+` token.
var constraintPatterns = map[string]string{
	"alpha":    `\w+`,
	"int":      `-?\d+`,
	"bool":     `(?:true|false)`,
	"datetime": `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:\d{2})?`,
	"float":    `-?\d+(?:\.\d+)?`,
	"decimal":  `-?\d+(?:\.\d+)?`,
	"guid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
}

// HasWildcard reports whether name contains wildcard syntax under syn.
func HasWildcard(name string, syn WildcardSyntax) bool {
	return strings.Contains(name, syn.Open) || strings.Contains(name, "*")
}

// Compile turns a handler name pattern into an anchored, case-sensitive
// regex plus the ordered list of named captures. Every character outside
// a `{...}` token or a bare `*` is escaped so literal path text is matched
// literally, per spec.md §4.2's "Regex escaping" rule.
func Compile(pattern string, syn WildcardSyntax) (*regexp.Regexp, []string, error) {
	var sb strings.Builder
	sb.WriteString(`\A`)

	var names []string
	seen := make(map[string]bool)

	i := 0
	for i < len(pattern) {
		if strings.HasPrefix(pattern[i:], syn.Open) {
			end := strings.Index(pattern[i:], syn.Close)
			if end < 0 {
				return nil, nil, fmt.Errorf("unterminated wildcard in %q", pattern)
			}
			token := pattern[i+len(syn.Open) : i+end]
			i += end + len(syn.Close)

			name := token
			constraint := "alpha"
			if idx := strings.Index(token, ":"); idx >= 0 {
				name = token[:idx]
				constraint = token[idx+1:]
			}
			if name == "" {
				return nil, nil, fmt.Errorf("unnamed wildcard in %q", pattern)
			}
			if seen[name] {
				return nil, nil, fmt.Errorf("duplicate wildcard name %q in %q", name, pattern)
			}
			seen[name] = true
			names = append(names, name)

			re, ok := constraintPatterns[constraint]
			if !ok {
				re = `\w+`
			}
			sb.WriteString(fmt.Sprintf(`(?P<%s>%s)`, name, re))
			continue
		}

		if pattern[i] == '*' {
			sb.WriteString(`(\S+)`)
			i++
			continue
		}

		sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
		i++
	}

	sb.WriteString(`\z`)

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, nil, fmt.Errorf("compile wildcard pattern %q: %w", pattern, err)
	}
	return re, names, nil
}

// NormalizedKey returns a canonical form of a wildcard pattern used to
// detect duplicate inserts that compile to distinct regexes but should
// still collide — e.g. "a:{x}" and "a:{y}" both normalize to
// "a:{<capture:alpha>}" since the capture name doesn't affect what the
// pattern matches (the constraint, which defaults to alpha, is kept).
func NormalizedKey(pattern string, syn WildcardSyntax) string {
	var sb strings.Builder
	i := 0
	for i < len(pattern) {
		if strings.HasPrefix(pattern[i:], syn.Open) {
			end := strings.Index(pattern[i:], syn.Close)
			if end < 0 {
				sb.WriteString(pattern[i:])
				break
			}
			token := pattern[i+len(syn.Open) : i+end]
			constraint := "alpha"
			if idx := strings.Index(token, ":"); idx >= 0 {
				constraint = token[idx+1:]
			}
			sb.WriteString(syn.Open)
			sb.WriteString("<capture:")
			sb.WriteString(constraint)
			sb.WriteString(">")
			sb.WriteString(syn.Close)
			i += end + len(syn.Close)
			continue
		}
		if pattern[i] == '*' {
			sb.WriteString(syn.Open)
			sb.WriteString("<capture:alpha>")
			sb.WriteString(syn.Close)
			i++
			continue
		}
		sb.WriteByte(pattern[i])
		i++
	}
	return sb.String()
}
