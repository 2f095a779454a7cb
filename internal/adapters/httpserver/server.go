package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/vitrina/internal/domain"
	"github.com/phenrril/vitrina/internal/metrics"
	"github.com/phenrril/vitrina/internal/usecase"
)

type Options struct {
	DefaultStorefront string
	SessionKey        []byte
	SessionTTL        time.Duration
	SecureCookies     bool
	PublicDir         string
	Gatherer          prometheus.Gatherer
	Metrics           *metrics.Storefront
}

type Server struct {
	router     chi.Router
	tmpl       *template.Template
	catalog    *usecase.CatalogUC
	storefront *usecase.StorefrontUC
	opts       Options
	validate   *validator.Validate
}

func New(t *template.Template, c *usecase.CatalogUC, sf *usecase.StorefrontUC, opts Options) http.Handler {
	if len(opts.SessionKey) == 0 {
		opts.SessionKey = []byte("dev-insecure")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	s := &Server{tmpl: t, catalog: c, storefront: sf, opts: opts, validate: validator.New(), router: chi.NewRouter()}
	s.router.Use(
		chimw.RequestID,
		chimw.RealIP,
		Logging(opts.Metrics),
		Recovery,
	)
	s.routes()
	return s.router
}

func (s *Server) routes() {
	r := s.router
	if s.opts.PublicDir != "" {
		r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(s.opts.PublicDir))))
	}
	r.Get("/healthz", s.handleHealth)
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.handleRoot)
	r.Route("/api/{store}", func(r chi.Router) {
		r.Get("/state", s.apiState)
		r.Get("/products", s.apiProducts)
	})
	r.Route("/{store}", func(r chi.Router) {
		r.Get("/", s.handleStorefront)
		r.Post("/filters/toggle", s.handleFilterToggle)
		r.Post("/filters/clear", s.handleFilterClear)
		r.Post("/cart/add", s.handleCartAdd)
		r.Post("/cart/remove", s.handleCartRemove)
		r.Post("/cart/update", s.handleCartUpdate)
		r.Post("/section", s.handleSection)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	store := s.opts.DefaultStorefront
	if store == "" {
		if sfs := s.catalog.List(); len(sfs) > 0 {
			store = sfs[0].Slug
		}
	}
	if store == "" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/"+store, http.StatusFound)
}

func (s *Server) handleStorefront(w http.ResponseWriter, r *http.Request) {
	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	v, err := s.storefront.View(r.Context(), sid, store)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, "storefront.html", map[string]any{
		"View":        v,
		"Storefronts": s.catalog.List(),
	})
}

func (s *Server) apiState(w http.ResponseWriter, r *http.Request) {
	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	v, err := s.storefront.View(r.Context(), sid, store)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Catalog(chi.URLParam(r, "store"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": cat.Products(), "total": cat.Len(), "storefront": cat.Storefront})
}

type filterForm struct {
	Facet string `validate:"required,oneof=size color brand"`
	Value string `validate:"required,max=100"`
}

type cartForm struct {
	ID int `validate:"gt=0"`
}

type updateForm struct {
	ID  int    `validate:"gt=0"`
	Op  string `validate:"omitempty,oneof=inc dec set"`
	Qty int
}

type sectionForm struct {
	Section string `validate:"required,max=60"`
}

func (s *Server) handleFilterToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	f := filterForm{Facet: strings.ToLower(strings.TrimSpace(r.FormValue("facet"))), Value: strings.TrimSpace(r.FormValue("value"))}
	if err := s.validate.Struct(f); err != nil {
		http.Error(w, "filter", http.StatusBadRequest)
		return
	}
	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	if err := s.storefront.ToggleFilter(r.Context(), sid, store, f.Facet, f.Value); err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterMutation(w, r, sid, store)
}

func (s *Server) handleFilterClear(w http.ResponseWriter, r *http.Request) {
	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	if err := s.storefront.ClearFilters(r.Context(), sid, store); err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterMutation(w, r, sid, store)
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseCartForm(w, r)
	if !ok {
		return
	}
	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	if err := s.storefront.AddToCart(r.Context(), sid, store, f.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterMutation(w, r, sid, store)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseCartForm(w, r)
	if !ok {
		return
	}
	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	if err := s.storefront.RemoveFromCart(r.Context(), sid, store, f.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterMutation(w, r, sid, store)
}

// handleCartUpdate applies op=inc|dec as a relative change and op=set (the
// default when qty is given) as an absolute quantity.
func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	var f updateForm
	var err error
	if f.ID, err = strconv.Atoi(strings.TrimSpace(r.FormValue("id"))); err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	f.Op = strings.ToLower(strings.TrimSpace(r.FormValue("op")))
	if raw := strings.TrimSpace(r.FormValue("qty")); raw != "" {
		if f.Qty, err = strconv.Atoi(raw); err != nil {
			http.Error(w, "qty", http.StatusBadRequest)
			return
		}
		if f.Op == "" {
			f.Op = "set"
		}
	} else if f.Op == "" || f.Op == "set" {
		http.Error(w, "qty", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(f); err != nil {
		http.Error(w, "update", http.StatusBadRequest)
		return
	}

	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	switch f.Op {
	case "inc":
		err = s.storefront.AdjustQuantity(r.Context(), sid, store, f.ID, 1)
	case "dec":
		err = s.storefront.AdjustQuantity(r.Context(), sid, store, f.ID, -1)
	default:
		err = s.storefront.UpdateQuantity(r.Context(), sid, store, f.ID, f.Qty)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterMutation(w, r, sid, store)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	f := sectionForm{Section: strings.TrimSpace(r.FormValue("section"))}
	if err := s.validate.Struct(f); err != nil {
		http.Error(w, "section", http.StatusBadRequest)
		return
	}
	store := chi.URLParam(r, "store")
	sid := s.ensureSession(w, r)
	if err := s.storefront.SetSection(r.Context(), sid, store, f.Section); err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterMutation(w, r, sid, store)
}

func (s *Server) parseCartForm(w http.ResponseWriter, r *http.Request) (cartForm, bool) {
	var f cartForm
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return f, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(r.FormValue("id")))
	if err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return f, false
	}
	f.ID = id
	if err := s.validate.Struct(f); err != nil {
		http.Error(w, "id", http.StatusBadRequest)
		return f, false
	}
	return f, true
}

// afterMutation answers fetch/JSON callers with the new state and redirects
// plain form posts back to the page.
func (s *Server) afterMutation(w http.ResponseWriter, r *http.Request, sid, store string) {
	if wantsJSON(r) {
		v, err := s.storefront.View(r.Context(), sid, store)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}
	http.Redirect(w, r, "/"+store, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || r.Header.Get("X-Requested-With") == "fetch"
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownStorefront), errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrUnknownFacet):
		http.Error(w, "filter", http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", chimw.GetReqID(r.Context())).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	if _, ok := data["Year"]; !ok {
		data["Year"] = time.Now().Year()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
