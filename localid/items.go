package localid

import (
	"strings"

	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/vis"
)

// appendItems writes the primary and secondary item segments, followed in
// verbose mode by the "~" description segments derived from the paths'
// common names.
func appendItems(sb *strings.Builder, primary, secondary *gmod.Path, verbose bool) {
	if primary == nil && secondary == nil {
		return
	}

	if primary != nil {
		sb.WriteString(primary.String())
		sb.WriteByte('/')
	}
	if secondary != nil {
		sb.WriteString("sec/")
		sb.WriteString(secondary.String())
		sb.WriteByte('/')
	}
	if !verbose {
		return
	}

	if primary != nil {
		for _, cn := range primary.CommonNames() {
			sb.WriteByte('~')
			appendDescription(sb, cn.Name, primary.NodeAt(cn.Depth))
			sb.WriteByte('/')
		}
	}
	if secondary != nil {
		prefix := "~for."
		for _, cn := range secondary.CommonNames() {
			sb.WriteString(prefix)
			prefix = "~"
			appendDescription(sb, cn.Name, secondary.NodeAt(cn.Depth))
			sb.WriteByte('/')
		}
	}
}

// appendDescription lowers a common name into the identifier charset:
// slashes drop, spaces and non-ISO characters become '.', letters
// lowercase, and repeated dots collapse. The node's location, if any,
// follows after a dot.
func appendDescription(sb *strings.Builder, name string, node *gmod.Node) {
	prev := byte(0)
	for _, ch := range name {
		if ch == '/' {
			continue
		}
		current := byte('.')
		if ch != ' ' && vis.IsISOString(string(ch)) {
			current = lowerByte(ch)
		}
		if current == '.' && prev == '.' {
			continue
		}
		sb.WriteByte(current)
		prev = current
	}

	if loc := node.Location(); !loc.IsEmpty() {
		sb.WriteByte('.')
		sb.WriteString(loc.Value())
	}
}

func lowerByte(ch rune) byte {
	if ch >= 'A' && ch <= 'Z' {
		return byte(ch) + ('a' - 'A')
	}
	return byte(ch)
}
