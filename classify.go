package kdoc

import (
	"regexp"
	"slices"
	"strings"
)

// ModifierTokens are declaration modifiers. They describe visibility or
// behavior, never kind, and are removed before classification.
var ModifierTokens = []string{
	"public",
	"private",
	"protected",
	"open",
	"const",
	"abstract",
	"suspend",
	"operator",
}

// KindKeywords maps each keyword-identified kind to the tokens that mark it.
var KindKeywords = map[SymbolKind][]string{
	KindClass:     {"class", "typealias"},
	KindInterface: {"interface"},
	KindFunction:  {"fun"},
	KindProperty:  {"val", "var"},
	KindObject:    {"object"},
}

// ConstructorToken marks a constructor in compiled signatures.
const ConstructorToken = "<init>"

var (
	callRe      = regexp.MustCompile(`^[a-zA-Z0-9]*\(.*\)`)
	upperCaseRe = regexp.MustCompile(`^[A-Z0-9_]+`)
)

// ClassifyRule pairs a predicate with the kind it yields.
// Match receives the trimmed signature and its non-modifier tokens.
type ClassifyRule struct {
	Name  string
	Kind  SymbolKind
	Match func(signature string, tokens []string) bool
}

// ClassifyRules is evaluated in order; the first matching rule wins.
// Keyword rules come before the shape rules so that a keyworded declaration
// with parentheses, such as "fun bar(x: Int)", is never a constructor.
var ClassifyRules = []ClassifyRule{
	{Name: "class keyword", Kind: KindClass, Match: hasKeyword(KindClass)},
	{Name: "interface keyword", Kind: KindInterface, Match: hasKeyword(KindInterface)},
	{Name: "fun keyword", Kind: KindFunction, Match: hasKeyword(KindFunction)},
	{Name: "property keyword", Kind: KindProperty, Match: hasKeyword(KindProperty)},
	{Name: "object keyword", Kind: KindObject, Match: hasKeyword(KindObject)},
	{Name: "init token", Kind: KindConstructor, Match: hasInitToken},
	{Name: "call shape", Kind: KindConstructor, Match: textOrDeclaration(callRe)},
	{Name: "upper case name", Kind: KindEnum, Match: textOrDeclaration(upperCaseRe)},
}

// SignatureTokens splits a signature on whitespace and drops modifiers.
func SignatureTokens(signature string) []string {
	fields := strings.Fields(signature)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if isModifier(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Classify infers the symbol kind from declaration text.
// Returns KindUnclassified when no rule matches or nothing but modifiers
// remains.
func Classify(signature string) SymbolKind {
	signature = strings.TrimSpace(signature)
	tokens := SignatureTokens(signature)
	if len(tokens) == 0 {
		return KindUnclassified
	}

	for _, rule := range ClassifyRules {
		if rule.Match(signature, tokens) {
			return rule.Kind
		}
	}
	return KindUnclassified
}

func isModifier(token string) bool {
	return slices.Contains(ModifierTokens, token)
}

func hasKeyword(kind SymbolKind) func(string, []string) bool {
	keywords := KindKeywords[kind]
	return func(_ string, tokens []string) bool {
		for _, kw := range keywords {
			if slices.Contains(tokens, kw) {
				return true
			}
		}
		return false
	}
}

func hasInitToken(_ string, tokens []string) bool {
	if slices.Contains(tokens, ConstructorToken) {
		return true
	}
	return len(tokens) > 0 && strings.HasPrefix(tokens[0], ConstructorToken)
}

// textOrDeclaration matches re against the whole signature, then against
// the signature with modifiers removed, starting at the first remaining
// token.
func textOrDeclaration(re *regexp.Regexp) func(string, []string) bool {
	return func(signature string, tokens []string) bool {
		if re.MatchString(signature) {
			return true
		}
		return len(tokens) > 0 && re.MatchString(strings.Join(tokens, " "))
	}
}
