package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"simple-blog/middlewares"
	"simple-blog/storage"
	"simple-blog/utils"
)

// UploadsPrefix is the URL path under which stored images are served.
const UploadsPrefix = "/uploads/"

// UploadHandler stores the optional post image and serves stored images back.
type UploadHandler struct {
	Storage      storage.Storage
	RandomSuffix bool
	Now          func() time.Time
}

func (h *UploadHandler) SetupUploadRoutes(r *mux.Router) {
	r.HandleFunc(UploadsPrefix+"{name}", h.ServeUpload).Methods(http.MethodGet, http.MethodHead)
}

func (h *UploadHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// AcceptOptionalImage stores the "image" file of a parsed multipart request
// and returns its public path, or nil when no file was sent.
func (h *UploadHandler) AcceptOptionalImage(r *http.Request) (*string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := utils.UploadName(h.now(), header.Filename, h.RandomSuffix)
	if err := h.Storage.Put(r.Context(), name, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	// The stored name is kept verbatim; only the public path is escaped so
	// '#', '?' and spaces survive the round trip through the browser.
	path := UploadsPrefix + url.PathEscape(name)
	return &path, nil
}

// ServeUpload matches on the decoded request path, so {name} is the stored
// name even when the link was escaped.
func (h *UploadHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	obj, err := h.Storage.Get(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		middlewares.HttpError(w, http.StatusInternalServerError, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	http.ServeContent(w, r, name, obj.ModTime, obj.Body)
}
