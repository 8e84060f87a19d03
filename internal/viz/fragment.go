package viz

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Unit is one executable snippet lifted out of a fragment.
type Unit struct {
	Index int
	Code  string
}

// Fragment is a chart fragment with its scripts separated from the markup.
type Fragment struct {
	Markup string
	Units  []Unit
}

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

// Split parses raw as an HTML fragment, strips every script element from
// the markup and returns the non-empty script bodies in document order.
func Split(raw string) (Fragment, error) {
	nodes, err := html.ParseFragment(strings.NewReader(raw), fragmentContext)
	if err != nil {
		return Fragment{}, err
	}

	var frag Fragment
	var markup strings.Builder
	for _, n := range nodes {
		if isScript(n) {
			frag.addUnit(scriptText(n))
			continue
		}
		for _, s := range collectScripts(n) {
			frag.addUnit(scriptText(s))
			s.Parent.RemoveChild(s)
		}
		if err := html.Render(&markup, n); err != nil {
			return Fragment{}, err
		}
	}
	frag.Markup = markup.String()
	return frag, nil
}

func (f *Fragment) addUnit(code string) {
	if strings.TrimSpace(code) == "" {
		return
	}
	f.Units = append(f.Units, Unit{Index: len(f.Units), Code: code})
}

func isScript(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Script
}

// collectScripts walks n depth-first and returns nested script nodes.
func collectScripts(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isScript(c) {
			out = append(out, c)
			continue
		}
		out = append(out, collectScripts(c)...)
	}
	return out
}

func scriptText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
