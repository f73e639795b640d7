package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"simple-blog/db"
	"simple-blog/middlewares"
	"simple-blog/validation"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files. It is not a size limit.
const multipartMemory = 32 << 20

// PostHandler serves the list page and the create form.
type PostHandler struct {
	Store    db.PostStore
	Uploads  *UploadHandler
	Renderer *Renderer
	// Strict rejects submissions with an empty title or content.
	Strict bool
}

// SetupPostRoutes registers the page routes. submitMiddleware wraps the
// create submission only; it may be nil.
func (h *PostHandler) SetupPostRoutes(r *mux.Router, submitMiddleware func(http.Handler) http.Handler) {
	var submit http.Handler = http.HandlerFunc(h.CreatePost)
	if submitMiddleware != nil {
		submit = submitMiddleware(submit)
	}

	r.HandleFunc("/", h.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/create", h.CreateForm).Methods(http.MethodGet)
	r.Handle("/create", submit).Methods(http.MethodPost)
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Store.ListAllDescending(r.Context())
	if err != nil {
		middlewares.HttpError(w, http.StatusInternalServerError, err)
		return
	}

	page, err := h.Renderer.RenderList(posts)
	if err != nil {
		middlewares.HttpError(w, http.StatusInternalServerError, err)
		return
	}

	middlewares.RespondHTML(w, page, http.StatusOK)
}

func (h *PostHandler) CreateForm(w http.ResponseWriter, _ *http.Request) {
	middlewares.RespondHTML(w, h.Renderer.CreatePage(), http.StatusOK)
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		middlewares.HttpError(w, http.StatusInternalServerError, err)
		return
	}
	if r.MultipartForm != nil {
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Printf("error removing multipart temp files: %v", err)
			}
		}()
	}

	form := validation.CreatePostForm{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}

	if h.Strict {
		if err := validation.ValidateCreatePostForm(form); err != nil {
			log.Printf("rejected post submission: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	imagePath, err := h.Uploads.AcceptOptionalImage(r)
	if err != nil {
		middlewares.HttpError(w, http.StatusInternalServerError, err)
		return
	}

	post, err := h.Store.Create(r.Context(), form.Title, form.Content, imagePath)
	if err != nil {
		middlewares.HttpError(w, http.StatusInternalServerError, err)
		return
	}

	log.Printf("post %s created", post.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}
