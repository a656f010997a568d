package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/config"
	"github.com/restynation/buythatworks/pkg/events"
	"github.com/restynation/buythatworks/pkg/imagestore"
	"github.com/restynation/buythatworks/pkg/models"
	"github.com/restynation/buythatworks/pkg/store"
)

// CatalogProvider returns the current reference catalog. *catalog.Loader
// implements it.
type CatalogProvider interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// ImageStore keeps uploaded images. *imagestore.Store implements it.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	MaxBytes() int64
	Handler() http.Handler
}

type WebRouter struct {
	config   config.Configuration
	storage  store.Stores
	catalog  CatalogProvider
	images   ImageStore
	Notifier *events.Notifier
	events   events.Publisher
}

// NewWebRouter wires the HTTP API. extra publishers, such as the MQTT
// publisher, receive every event the SSE notifier does.
func NewWebRouter(cfg config.Configuration, stores store.Stores, cat CatalogProvider, images ImageStore, extra ...events.Publisher) *WebRouter {
	notifier := events.NewNotifier()
	pubs := events.Multi{notifier}
	pubs = append(pubs, extra...)
	return &WebRouter{
		config:   cfg,
		storage:  stores,
		catalog:  cat,
		images:   images,
		Notifier: notifier,
		events:   pubs,
	}
}

// Initialize serves the API on the configured listen address.
func (wr *WebRouter) Initialize() error {
	slog.Info("listening", "addr", wr.config.ListenAddr)
	return http.ListenAndServe(wr.config.ListenAddr, wr.Handler())
}

// Handler returns the complete handler chain: recovery, CORS, proxy headers,
// request logging and the API routes.
func (wr *WebRouter) Handler() http.Handler {
	myRouter := mux.NewRouter().StrictSlash(true)

	myRouter.HandleFunc("/api/catalog", wr.getCatalog).Methods("GET")
	myRouter.HandleFunc("/api/setups", wr.createSetup).Methods("POST")
	myRouter.HandleFunc("/api/setups/delete", wr.deleteSetup).Methods("POST")
	myRouter.HandleFunc("/api/setups/{id}", wr.getSetup).Methods("GET")
	myRouter.HandleFunc("/api/images", wr.uploadImage).Methods("POST")
	myRouter.HandleFunc("/api/setups-sse", wr.setupsSSE).Methods("GET")
	if wr.images != nil {
		prefix := wr.publicImagePrefix()
		myRouter.PathPrefix(prefix).Handler(http.StripPrefix(strings.TrimSuffix(prefix, "/"), wr.images.Handler())).Methods("GET", "HEAD")
	}

	myRouter.Use(handlers.ProxyHeaders)
	myRouter.Use(RequestLogger)

	origins := wr.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"}),
	)
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))
	return h(cors(myRouter))
}

func (wr *WebRouter) publicImagePrefix() string {
	prefix := wr.config.Images.PublicPrefix
	if prefix == "" || strings.Contains(prefix, "://") {
		prefix = "/setup-images/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func RequestLogger(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		slog.Info("endpoint hit", "method", r.Method, "path", r.URL.Path, "remote_host", r.RemoteAddr, "user_agent", r.UserAgent())
		// Call the next handler in the chain.
		h.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func (wr *WebRouter) getCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := wr.catalog.Load(r.Context())
	if err != nil {
		slog.Error("error loading catalog", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Reference catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, cat.Data())
}

func (wr *WebRouter) uploadImage(w http.ResponseWriter, r *http.Request) {
	if wr.images == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are disabled")
		return
	}
	limit := wr.images.MaxBytes()
	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, limit+64*1024)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image must be smaller than 5MB")
			return
		}
		writeError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	if header.Size > limit {
		writeError(w, http.StatusRequestEntityTooLarge, "Image must be smaller than 5MB")
		return
	}

	url, err := wr.images.Save(header.Filename, file)
	switch {
	case errors.Is(err, imagestore.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Image must be smaller than 5MB")
		return
	case errors.Is(err, imagestore.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, "Unsupported image type")
		return
	case err != nil:
		slog.Error("error storing image", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	if base := strings.TrimRight(wr.config.BaseURL, "/"); base != "" && strings.HasPrefix(url, "/") {
		url = base + url
	}
	writeJSON(w, http.StatusOK, models.ImageUploadResponse{URL: url})
}
