// Package listops builds compiler and tool arguments from ordered string lists.
//
// AddPrefix and AddSuffix keep one token per item, which is what argv-style
// consumers need (for example "-I" include flags). PrependOver fuses the
// whole list into a single string for properties that a tool reads as one
// token.
package listops

import "strings"

// Join places sep between consecutive items. An empty list yields "".
func Join(sep string, items []string) string {
	return strings.Join(items, sep)
}

// AddPrefix returns a new list where every item is prefix+item.
func AddPrefix(prefix string, items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = prefix + item
	}
	return out
}

// PrependOver returns prefix+item1+prefix+item2+... as one string.
func PrependOver(prefix string, items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(prefix)
		b.WriteString(item)
	}
	return b.String()
}

// AddSuffix returns a new list where every item is item+suffix.
func AddSuffix(suffix string, items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item + suffix
	}
	return out
}
