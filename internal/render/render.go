// Package render turns the idea collection into list markup.
package render

import (
	"strconv"
	"strings"

	"github.com/pbaille/ideas/internal/domain"
)

// Control attributes carried by the per-entry buttons
const (
	AttrLike   = "data-like"
	AttrDelete = "data-del"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes & < > " and ' for use in element text and attribute values
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Ideas renders one list entry per idea, in the given order
func Ideas(ideas []domain.Idea) string {
	var sb strings.Builder
	for _, idea := range ideas {
		writeIdea(&sb, idea)
	}
	return sb.String()
}

// Idea renders a single list entry
func Idea(idea domain.Idea) string {
	var sb strings.Builder
	writeIdea(&sb, idea)
	return sb.String()
}

func writeIdea(sb *strings.Builder, idea domain.Idea) {
	id := EscapeHTML(idea.ID.String())

	sb.WriteString(`<li class="idea">`)
	sb.WriteString(`<h3>`)
	sb.WriteString(EscapeHTML(idea.Title))
	sb.WriteString(`</h3>`)

	sb.WriteString(`<div class="meta">#<span class="id">`)
	sb.WriteString(id)
	sb.WriteString(`</span> · Likes: <strong class="likes">`)
	sb.WriteString(strconv.Itoa(idea.Likes))
	sb.WriteString(`</strong></div>`)

	sb.WriteString(`<p class="description">`)
	sb.WriteString(EscapeHTML(idea.Description))
	sb.WriteString(`</p>`)

	sb.WriteString(`<div class="tags">`)
	for _, tag := range idea.Tags {
		sb.WriteString(`<span class="tag">`)
		sb.WriteString(EscapeHTML(tag))
		sb.WriteString(`</span>`)
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="actions">`)
	sb.WriteString(`<button class="like" ` + AttrLike + `="` + id + `">Like</button>`)
	sb.WriteString(`<button class="danger" ` + AttrDelete + `="` + id + `">Delete</button>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`</li>`)
}
