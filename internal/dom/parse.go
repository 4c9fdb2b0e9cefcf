package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pbaille/ideas/internal/controller"
	"github.com/pbaille/ideas/internal/render"
)

// Entry is one rendered idea as read back from the list markup
type Entry struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Likes       int
	LikeID      string
	DeleteID    string
}

// parseList parses list container markup as the children of a <ul>
func parseList(markup string) ([]*html.Node, error) {
	ul := &html.Node{Type: html.ElementNode, Data: "ul", DataAtom: atom.Ul}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ul)
	if err != nil {
		return nil, fmt.Errorf("parse list: %w", err)
	}
	return nodes, nil
}

// ParseEntries reads every rendered idea entry out of the list markup
func ParseEntries(markup string) ([]Entry, error) {
	nodes, err := parseList(markup)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, n := range nodes {
		if n.Type != html.ElementNode || n.DataAtom != atom.Li || !hasClass(n, "idea") {
			continue
		}
		e, err := readEntry(n)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readEntry(li *html.Node) (Entry, error) {
	e := Entry{Tags: []string{}}
	var likes string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.DataAtom == atom.H3:
				e.Title = textOf(n)
			case n.DataAtom == atom.Span && hasClass(n, "id"):
				e.ID = textOf(n)
			case n.DataAtom == atom.Strong && hasClass(n, "likes"):
				likes = textOf(n)
			case n.DataAtom == atom.P && hasClass(n, "description"):
				e.Description = textOf(n)
			case n.DataAtom == atom.Span && hasClass(n, "tag"):
				e.Tags = append(e.Tags, textOf(n))
			case n.DataAtom == atom.Button:
				if v, ok := attrOf(n, render.AttrLike); ok {
					e.LikeID = v
				}
				if v, ok := attrOf(n, render.AttrDelete); ok {
					e.DeleteID = v
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(li)

	n, err := strconv.Atoi(likes)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: likes %q: %w", e.ID, likes, err)
	}
	e.Likes = n
	return e, nil
}

// FindControl returns the first element in the list markup whose attr equals value
func FindControl(markup, attr, value string) (controller.Control, error) {
	nodes, err := parseList(markup)
	if err != nil {
		return controller.Control{}, err
	}

	var found bool
	var find func(*html.Node)
	find = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode {
			if v, ok := attrOf(n, attr); ok && v == value {
				found = true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	for _, n := range nodes {
		find(n)
	}

	if !found {
		return controller.Control{}, fmt.Errorf("%s=%q: %w", attr, value, ErrNoControl)
	}
	return controller.Control{Attr: attr, Value: value}, nil
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attrOf(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// textOf concatenates the text nodes below n
func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
