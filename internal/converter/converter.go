// Package converter turns a constrained subset of article HTML into
// Markdown. It walks the parse tree, so unknown or badly nested markup
// degrades to its text instead of leaking tags.
package converter

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	whitespaceLines = regexp.MustCompile(`(?m)^[ \t\p{Zs}]+$`)
)

type handler func(n *html.Node) string

var dispatch map[atom.Atom]handler

func init() {
	dispatch = map[atom.Atom]handler{
		atom.Script: drop,
		atom.Style:  drop,
		atom.H1:     heading(1),
		atom.H2:     heading(2),
		atom.H3:     heading(3),
		atom.H4:     heading(4),
		atom.Strong: wrap("**"),
		atom.B:      wrap("**"),
		atom.Em:     wrap("*"),
		atom.I:      wrap("*"),
		atom.A:      link,
		atom.Img:    image,
		atom.Ul:     list,
		atom.Ol:     list,
		atom.Li:     listItem,
		atom.P:      paragraph,
		atom.Br:     lineBreak,
	}
}

// ToMarkdown converts an HTML fragment. Empty input yields "".
func ToMarkdown(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(render(n))
	}

	out := whitespaceLines.ReplaceAllString(sb.String(), "")
	out = excessNewlines.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}

func render(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
		if h, ok := dispatch[n.DataAtom]; ok {
			return h(n)
		}

		return children(n)
	case html.DocumentNode:
		return children(n)
	}

	return ""
}

func children(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(render(c))
	}

	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}

	return ""
}

func drop(*html.Node) string { return "" }

func heading(level int) handler {
	prefix := strings.Repeat("#", level) + " "

	return func(n *html.Node) string {
		return prefix + strings.TrimSpace(children(n)) + "\n\n"
	}
}

func wrap(marker string) handler {
	return func(n *html.Node) string {
		return marker + children(n) + marker
	}
}

func link(n *html.Node) string {
	href := attr(n, "href")
	if href == "" {
		return children(n)
	}

	return "[" + children(n) + "](" + href + ")"
}

func image(n *html.Node) string {
	src := attr(n, "src")
	if src == "" {
		return ""
	}

	return "![" + attr(n, "alt") + "](" + src + ")"
}

func list(n *html.Node) string {
	return "\n" + children(n) + "\n"
}

func listItem(n *html.Node) string {
	return "- " + strings.TrimSpace(children(n)) + "\n"
}

func paragraph(n *html.Node) string {
	return children(n) + "\n\n"
}

func lineBreak(*html.Node) string { return "\n" }
