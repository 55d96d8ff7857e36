// Package render turns games into the card markup shown on the page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/meur/gameshelf/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Markup selects how text fields reach the page.
type Markup string

const (
	// MarkupEscape shows field text literally.
	MarkupEscape Markup = "escape"
	// MarkupSanitize lets field text carry inline markup after it passes a
	// user-content policy.
	MarkupSanitize Markup = "sanitize"
)

// Valid reports whether m is a known markup mode.
func (m Markup) Valid() bool {
	return m == MarkupEscape || m == MarkupSanitize
}

const (
	noMatchesText = "No matches."
	defaultTitle  = "Game recommendations"
)

// Options configures a Renderer.
type Options struct {
	Images       bool   // Render an <img> for games that carry an image URL
	Markup       Markup // Defaults to MarkupEscape
	ResourceName string // Named in the load failure notice
	Title        string // Page heading
}

// Renderer produces page and container markup.
type Renderer struct {
	opts   Options
	tmpl   *template.Template
	policy *bluemonday.Policy
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	if opts.Markup == "" {
		opts.Markup = MarkupEscape
	}
	if !opts.Markup.Valid() {
		return nil, fmt.Errorf("unknown markup mode %q", opts.Markup)
	}
	if opts.ResourceName == "" {
		opts.ResourceName = "games.json"
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := &Renderer{opts: opts, tmpl: tmpl}
	if opts.Markup == MarkupSanitize {
		r.policy = bluemonday.UGCPolicy()
		r.policy.RequireNoReferrerOnLinks(true)
		r.policy.AddTargetBlankToFullyQualifiedLinks(true)
	}
	return r, nil
}

// card is the template view of one game. Text fields are already safe HTML.
type card struct {
	ShowImage     bool
	Image         string
	Title         template.HTML
	Platforms     template.HTML
	RecommendedBy template.HTML
	Why           template.HTML
	Tags          template.HTML
	Wiki          string
}

// Cards renders games as the container content: one card per game in order,
// or the "No matches." notice for an empty list.
func (r *Renderer) Cards(games []models.Game) template.HTML {
	if len(games) == 0 {
		return r.NoMatches()
	}

	cards := make([]card, len(games))
	for i, g := range games {
		cards[i] = card{
			ShowImage:     r.opts.Images && g.Image != "",
			Image:         g.Image,
			Title:         r.text(g.Title),
			Platforms:     r.text(g.PlatformLine()),
			RecommendedBy: r.text(g.RecommendedBy),
			Why:           r.text(g.Why),
			Tags:          r.text(g.TagLine()),
			Wiki:          g.Wiki,
		}
	}
	return r.execute("cards", cards)
}

// NoMatches is the notice shown when nothing matches the query.
func (r *Renderer) NoMatches() template.HTML {
	return r.execute("notice", noMatchesText)
}

// LoadFailure is the notice shown when the catalog could not be loaded.
func (r *Renderer) LoadFailure() template.HTML {
	return r.execute("notice", "Couldn’t load "+r.opts.ResourceName+".")
}

// Page is the data for a full document render.
type Page struct {
	Query string
	List  template.HTML
}

// WritePage renders the full document to w.
func (r *Renderer) WritePage(w io.Writer, p Page) error {
	data := struct {
		Title string
		Page
	}{r.opts.Title, p}
	return r.tmpl.ExecuteTemplate(w, "page", data)
}

func (r *Renderer) text(s string) template.HTML {
	if r.policy != nil {
		return template.HTML(r.policy.Sanitize(s))
	}
	return template.HTML(template.HTMLEscapeString(s))
}

// execute runs a fragment template into a string. The templates are embedded
// and the writer cannot fail, so an error here is a template bug.
func (r *Renderer) execute(name string, data any) template.HTML {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		panic(fmt.Sprintf("render %s: %v", name, err))
	}
	return template.HTML(b.String())
}
