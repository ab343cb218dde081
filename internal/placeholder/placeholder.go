// Package placeholder renders {{id}} tokens found in document templates.
package placeholder

import (
	"regexp"
	"strconv"
	"strings"
)

// Var pairs a variable id with its display name.
type Var struct {
	ID   uint
	Name string
}

// tokenRe matches exactly the form produced by Token; "{{ 1 }}" is plain text.
var tokenRe = regexp.MustCompile(`\{\{(\d+)\}\}`)

// Token returns the placeholder for id.
func Token(id uint) string {
	return "{{" + strconv.FormatUint(uint64(id), 10) + "}}"
}

// Render replaces every {{id}} with {{name}} for each var, in order.
// Ids without a matching var are left as is. When a name is itself the id
// of a later var, the later replacement applies to it too.
func Render(content string, vars []Var) string {
	for _, v := range vars {
		content = strings.ReplaceAll(content, Token(v.ID), "{{"+v.Name+"}}")
	}
	return content
}

// IDs lists the distinct numeric placeholder ids in order of first appearance.
func IDs(content string) []uint {
	var ids []uint
	seen := map[uint]bool{}
	for _, m := range tokenRe.FindAllStringSubmatch(content, -1) {
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		id := uint(n)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// Fill substitutes actual values for placeholders. Placeholders without a
// value are kept.
func Fill(content string, values map[uint]string) string {
	return tokenRe.ReplaceAllStringFunc(content, func(tok string) string {
		m := tokenRe.FindStringSubmatch(tok)
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return tok
		}
		if v, ok := values[uint(n)]; ok {
			return v
		}
		return tok
	})
}
