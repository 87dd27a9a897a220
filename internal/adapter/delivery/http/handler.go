package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

func handleRoot(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, rootResponse)
}

type linkUseCase interface {
	ListLinks(ctx context.Context, params entity.ListParams) (*entity.LinkPage, error)
	CreateLink(ctx context.Context, name, url string) (*entity.ShortLink, error)
	UpdateLink(ctx context.Context, id uuid.UUID, name, url string) (*entity.ShortLink, error)
	DeleteLink(ctx context.Context, id uuid.UUID) error
	ResolveLink(ctx context.Context, name string) (*entity.ShortLink, error)
}

type linkExporter interface {
	Export(ctx context.Context, search string) (string, error)
}

type linkHandler struct {
	useCase  linkUseCase
	exporter linkExporter
	validate *validator.Validate
}

func newLinkHandler(useCase linkUseCase, exporter linkExporter, validate *validator.Validate) *linkHandler {
	return &linkHandler{
		useCase:  useCase,
		exporter: exporter,
		validate: validate,
	}
}

// decodeLinkRequest writes the error response itself and reports whether
// the handler may continue.
func (h *linkHandler) decodeLinkRequest(w http.ResponseWriter, r *http.Request) (linkRequest, bool) {
	var req linkRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return req, false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return req, false
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return req, false
	}

	return req, true
}

func (h *linkHandler) listLinks(w http.ResponseWriter, r *http.Request) {
	query := listLinksQuery{
		Search:   r.URL.Query().Get("search"),
		Page:     1,
		PageSize: entity.DefaultPageSize,
	}

	intParams := []struct {
		field string
		dst   *int
	}{
		{field: "page", dst: &query.Page},
		{field: "pageSize", dst: &query.PageSize},
	}

	for _, p := range intParams {
		raw := r.URL.Query().Get(p.field)
		if raw == "" {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, invalidQueryResponse(p.field))
			return
		}
		*p.dst = n
	}

	if err := h.validate.Struct(query); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	page, err := h.useCase.ListLinks(r.Context(), query.toParams())
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toListLinksResponse(page))
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLinkRequest(w, r)
	if !ok {
		return
	}

	link, err := h.useCase.CreateLink(r.Context(), req.Name, req.URL)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNameExists) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, linkNameExistsResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, linkDataResponse{
		Data:    toLinkResponse(link),
		Message: "url created successfully",
	})
}

func (h *linkHandler) updateLink(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLinkRequest(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, linkNotFoundResponse)
		return
	}

	link, err := h.useCase.UpdateLink(r.Context(), id, req.Name, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrLinkNotFound):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, linkNotFoundResponse)
		case errors.Is(err, entity.ErrLinkNameExists):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, linkNameExistsResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, linkDataResponse{
		Data:    toLinkResponse(link),
		Message: "url updated successfully",
	})
}

func (h *linkHandler) deleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, linkNotFoundResponse)
		return
	}

	if err := h.useCase.DeleteLink(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, linkNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, messageResponse{Message: "url deleted successfully"})
}

func (h *linkHandler) resolveLink(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "shortUrl")

	// A name that could never have been stored is not worth a query.
	if !isValidLinkName(name) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, linkNotFoundResponse)
		return
	}

	link, err := h.useCase.ResolveLink(r.Context(), name)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, linkNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resolveResponse{
		URL:         link.URL,
		CountAccess: link.AccessCount,
	})
}

func (h *linkHandler) exportLinks(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("searchQuery")

	url, err := h.exporter.Export(r.Context(), search)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, exportFailedResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, exportResponse{
		Message: "url exported successfully",
		URL:     url,
	})
}
