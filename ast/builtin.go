package ast

import (
	"unicode"
	"unicode/utf8"
)

// keywords contains the JavaScript reserved words, including the ones only
// reserved in strict mode code (modules are always strict).
var keywords = map[string]bool{
	"await":      true,
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"implements": true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"interface":  true,
	"let":        true,
	"new":        true,
	"null":       true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"static":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

// restrictedNames may not be used as binding names in strict code.
var restrictedNames = map[string]bool{
	"arguments": true,
	"eval":      true,
	"undefined": true,
}

// IsKeyword returns true if the given name is a JavaScript reserved word.
func IsKeyword(name string) bool {
	return keywords[name]
}

// IsReservedName returns true if name cannot be used for a generated
// binding: a keyword or one of the restricted globals.
func IsReservedName(name string) bool {
	return keywords[name] || restrictedNames[name]
}

// IsIdentifierName reports whether s is a valid identifier name, which is
// what decides between `a.b` and `a["b"]` or bare and quoted object keys.
func IsIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if IsIdentifierStart(r) {
			continue
		}
		if i > 0 && IsIdentifierPart(r) {
			continue
		}
		return false
	}
	return true
}

// IsIdentifierStart covers the ASCII subset plus any non-ASCII letter.
func IsIdentifierStart(r rune) bool {
	if r < utf8.RuneSelf {
		return r == '$' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r)
}

func IsIdentifierPart(r rune) bool {
	if r < utf8.RuneSelf {
		return IsIdentifierStart(r) || (r >= '0' && r <= '9')
	}
	return unicode.In(r, unicode.L, unicode.Nd, unicode.Mn, unicode.Mc, unicode.Pc)
}
