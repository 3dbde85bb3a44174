package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/prerender/pkg/render"
	"github.com/vango-dev/prerender/pkg/snapshot"
	"github.com/vango-dev/prerender/pkg/vdom"
)

// renderResponse is the body of a successful POST /render.
type renderResponse struct {
	Markup              string `json:"markup"`
	MarkupWithCacheData string `json:"markupWithCacheData,omitempty"`
	Pending             int    `json:"pending"`
	Passes              int    `json:"passes"`
	Suspensions         int    `json:"suspensions"`
	ForcedFallbacks     int    `json:"forcedFallbacks"`
	Snapshot            string `json:"snapshot,omitempty"`
}

type listResponse struct {
	Keys []string `json:"keys"`
}

func (s *Server) renderOptions() []render.Option {
	opts := []render.Option{
		render.WithMaxWait(s.config.MaxWait),
		render.WithLogger(s.logger),
		render.WithDevMode(s.config.DevMode),
		render.WithEmbed(s.config.Embed),
	}
	if s.config.FrameBudget > 0 {
		opts = append(opts, render.WithFrameBudget(s.config.FrameBudget))
	}
	if s.metrics != nil {
		opts = append(opts, render.WithMetrics(s.metrics))
	}
	if s.tracer != nil {
		opts = append(opts, render.WithTracer(s.tracer))
	}
	return opts
}

func (s *Server) render(ctx context.Context, tree *vdom.VNode, static bool) (*render.Result, error) {
	if static {
		return render.RenderToStaticMarkup(ctx, tree, s.renderOptions()...)
	}
	return render.RenderToString(ctx, tree, s.renderOptions()...)
}

func (s *Server) pageHandler(fn PageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := fn(r)
		if err != nil {
			s.pageError(w, r, err)
			return
		}
		res, err := s.render(r.Context(), tree, s.config.Static)
		if err != nil {
			s.pageError(w, r, err)
			return
		}
		body := res.MarkupWithCacheData
		if s.config.Static {
			body = res.Markup
		}
		s.writeDocument(w, r, body)
	}
}

func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, body string) {
	page := render.Page{Body: body, Title: s.config.Title}
	if s.config.ClientScript != "" {
		page.Scripts = []render.ScriptTag{{Src: s.config.ClientScript}}
	}
	html, err := render.DocumentString(page)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logFailure(r, status, err)
	http.Error(w, http.StatusText(status), status)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	tree, err := s.decodeTree(w, r)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	static := queryBool(r, "static", s.config.Static)
	res, err := s.render(r.Context(), tree, static)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	resp := renderResponse{
		Markup:              res.Markup,
		MarkupWithCacheData: res.MarkupWithCacheData,
		Pending:             res.Pending,
		Passes:              res.Stats.Passes,
		Suspensions:         res.Stats.Suspensions,
		ForcedFallbacks:     res.Stats.ForcedFallbacks,
	}
	if key := r.URL.Query().Get("snapshot"); key != "" {
		if _, err := s.storeResult(r.Context(), key, res, static); err != nil {
			s.apiError(w, r, err)
			return
		}
		resp.Snapshot = key
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.apiError(w, r, ErrNoStore)
		return
	}
	keys, err := s.store.List(r.Context())
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Keys: keys})
}

func (s *Server) handlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := snapshot.ValidateKey(key); err != nil {
		s.apiError(w, r, err)
		return
	}
	tree, err := s.decodeTree(w, r)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	static := queryBool(r, "static", s.config.Static)
	res, err := s.render(r.Context(), tree, static)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	snap, err := s.storeResult(r.Context(), key, res, static)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.getSnapshot(r)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSnapshotPage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.getSnapshot(r)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.writeDocument(w, r, snap.MarkupWithCacheData(s.config.Embed))
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.apiError(w, r, ErrNoStore)
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.apiError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSnapshot(r *http.Request) (*snapshot.Snapshot, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.Get(r.Context(), chi.URLParam(r, "key"))
}

func (s *Server) storeResult(ctx context.Context, key string, res *render.Result, static bool) (*snapshot.Snapshot, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	snap, err := snapshot.FromResult(key, res, static)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, snap); err != nil {
		return nil, err
	}
	s.logger.Info("snapshot stored", "key", key, "static", static, "pending", snap.Pending)
	return snap, nil
}

func (s *Server) decodeTree(w http.ResponseWriter, r *http.Request) (*vdom.VNode, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	return vdom.DecodeJSON(data)
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logFailure(r, status, err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// logFailure logs server faults at Error and client mistakes at Debug.
func (s *Server) logFailure(r *http.Request, status int, err error) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
		return
	}
	s.logger.Debug("request rejected", attrs...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// queryBool reads a boolean query parameter, returning def when it is
// absent or malformed.
func queryBool(r *http.Request, name string, def bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
