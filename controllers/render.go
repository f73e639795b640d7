package controllers

import (
	"bytes"
	"embed"
	"html/template"

	"simple-blog/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// postView is a post prepared for the list template.
type postView struct {
	Title     template.HTML
	Content   template.HTML
	ImagePath string
}

type listPage struct {
	Posts []postView
}

// Renderer turns posts into pages. Unless escapeHTML is set, titles and
// contents are inserted as raw markup.
type Renderer struct {
	templates  *template.Template
	createPage []byte
	escapeHTML bool
}

func NewRenderer(escapeHTML bool) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	var createPage bytes.Buffer
	if err := tmpl.ExecuteTemplate(&createPage, "create", nil); err != nil {
		return nil, err
	}

	return &Renderer{
		templates:  tmpl,
		createPage: createPage.Bytes(),
		escapeHTML: escapeHTML,
	}, nil
}

func (r *Renderer) markup(s string) template.HTML {
	if r.escapeHTML {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(s)
}

// RenderList renders the index page with posts in the given order.
func (r *Renderer) RenderList(posts []models.Post) ([]byte, error) {
	page := listPage{Posts: make([]postView, 0, len(posts))}
	for _, post := range posts {
		view := postView{
			Title:   r.markup(post.Title),
			Content: r.markup(post.Content),
		}
		if post.HasImage() {
			view.ImagePath = *post.ImagePath
		}
		page.Posts = append(page.Posts, view)
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "list", page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CreatePage returns the static post creation form.
func (r *Renderer) CreatePage() []byte {
	return r.createPage
}
