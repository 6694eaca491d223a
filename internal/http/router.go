package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Rotations  *RotationHandler
	Overrides  *OverrideHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/rotations", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Rotations == nil {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			cfg.Rotations.List(w, r)
		case http.MethodPost:
			cfg.Rotations.Create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/rotations/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/rotations/")
		if rest == "" {
			http.NotFound(w, r)
			return
		}

		rotationID, tail, hasTail := strings.Cut(rest, "/")
		if rotationID == "" {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithRotationID(r.Context(), rotationID))

		if !hasTail {
			if cfg.Rotations == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Rotations.Get(w, r)
			case http.MethodPut:
				cfg.Rotations.Update(w, r)
			case http.MethodDelete:
				cfg.Rotations.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
			return
		}

		switch {
		case tail == "timeline":
			if cfg.Rotations == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Rotations.Timeline(w, r)
		case tail == "overrides":
			if cfg.Overrides == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Overrides.List(w, r)
			case http.MethodPost:
				cfg.Overrides.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		case strings.HasPrefix(tail, "overrides/"):
			if cfg.Overrides == nil {
				http.NotFound(w, r)
				return
			}
			overrideID := strings.TrimPrefix(tail, "overrides/")
			if overrideID == "" || strings.Contains(overrideID, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithOverrideID(r.Context(), overrideID))
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Overrides.Delete(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
