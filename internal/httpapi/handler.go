package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/nikbrunner/sl/internal/command"
	"github.com/nikbrunner/sl/internal/logger"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/shortlink"
	"github.com/nikbrunner/sl/internal/storage"
)

// Service is the part of shortlink.Service the HTTP surface uses.
type Service interface {
	Resolve(ctx context.Context, names []string) ([]string, error)
	Snapshot(ctx context.Context) ([]model.Shortlink, error)
	Get(ctx context.Context, name string) (model.Shortlink, error)
	SetURLs(ctx context.Context, name string, urls []string) error
	DeleteOne(ctx context.Context, name string) error
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

type handler struct {
	svc      Service
	validate *validator.Validate
	log      logger.Logger
}

func newHandler(svc Service, log logger.Logger) *handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &handler{svc: svc, validate: validate, log: log}
}

// goTo resolves names like the "go" command: each found shortlink's
// priority is bumped. A single URL redirects; anything else is listed.
func (h *handler) goTo(w http.ResponseWriter, r *http.Request) {
	names := command.ExtractNames(chi.URLParam(r, "names"))
	if len(names) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, noNamesResponse)
		return
	}

	urls, err := h.svc.Resolve(r.Context(), names)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if len(urls) == 1 {
		http.Redirect(w, r, urls[0], http.StatusFound)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, urlsResponse{URLs: urls})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toShortlinksResponse(links))
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, link)
}

func (h *handler) put(w http.ResponseWriter, r *http.Request) {
	var req urlsRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		if errors.Is(err, io.EOF) {
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	name := chi.URLParam(r, "name")
	if err := h.svc.SetURLs(r.Context(), name, req.URLs); err != nil {
		h.fail(w, r, err)
		return
	}

	h.get(w, r)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOne(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// fail maps service errors to responses.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shortlink.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, notFoundResponse)
	case errors.Is(err, storage.ErrRateLimited):
		render.Status(r, http.StatusTooManyRequests)
		render.JSON(w, r, rateLimitedResponse)
	default:
		h.log.Error("request failed", logger.String("path", r.URL.Path), logger.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
	}
}
