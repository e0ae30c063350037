package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/secondchance-api/internal/api/shared"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/platform/logger"
	"github.com/phrazzld/secondchance-api/internal/service"
)

const (
	// itemIDParam is the chi URL parameter holding the item ID.
	itemIDParam = "id"

	// uploadField is the multipart field carrying the image.
	uploadField = "file"

	// multipartOverhead is allowed on top of the image limit for the other
	// form fields and part headers.
	multipartOverhead = 64 << 10

	// multipartMemory is held in memory before parts spill to temp files.
	multipartMemory = 1 << 20
)

// ItemHandler handles the catalog endpoints.
type ItemHandler struct {
	items          service.ItemService
	maxUploadBytes int64
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items service.ItemService, maxUploadBytes int64) *ItemHandler {
	return &ItemHandler{
		items:          items,
		maxUploadBytes: maxUploadBytes,
	}
}

// List handles GET /items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// Create handles POST /items. It accepts multipart/form-data with an
// optional image in the "file" field, or a JSON body without an image.
// The response body is the new item's ID as a JSON string.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		req    CreateItemRequest
		upload *service.Upload
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var (
			cleanup func()
			ok      bool
		)
		req, upload, cleanup, ok = h.parseMultipart(w, r)
		if !ok {
			return
		}
		defer cleanup()
	} else if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	fields := req.fields()
	if err := shared.ValidateRequest(req, fields.Normalize().Validate()); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	item, err := h.items.Create(r.Context(), fields, upload)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Location", "/items/"+item.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, item.ID)
}

// Get handles GET /items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), chi.URLParam(r, itemIDParam))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// Update handles PUT /items/{id}. An item removed while the update was in
// flight is reported as {"uploaded":"failed"} with status 200.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	patch := req.patch()
	if err := shared.ValidateRequest(req, patch.Normalize().Validate()); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	item, err := h.items.Update(r.Context(), chi.URLParam(r, itemIDParam), patch)
	if err != nil {
		if errors.Is(err, service.ErrItemUpdateFailed) {
			shared.RespondWithJSON(w, r, http.StatusOK, UpdateItemResponse{Uploaded: UpdateFailed})
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateItemResponse{Uploaded: UpdateSucceeded, Item: item})
}

// Delete handles DELETE /items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), chi.URLParam(r, itemIDParam)); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DeleteItemResponse{Deleted: "success"})
}

// parseMultipart reads the form fields and the optional image. It writes the
// error response itself and reports ok=false when the request is rejected.
func (h *ItemHandler) parseMultipart(
	w http.ResponseWriter,
	r *http.Request,
) (CreateItemRequest, *service.Upload, func(), bool) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Upload too large")
			return CreateItemRequest{}, nil, noop, false
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return CreateItemRequest{}, nil, noop, false
	}
	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.FromContext(r.Context()).Warn("failed to remove multipart temp files", "error", err)
		}
	}

	req := CreateItemRequest{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Condition:   r.FormValue("condition"),
		PostedBy:    r.FormValue("posted_by"),
		Zipcode:     r.FormValue("zipcode"),
		Description: r.FormValue("description"),
	}
	if raw := strings.TrimSpace(r.FormValue("age_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			cleanup()
			shared.RespondWithValidationError(w, r, domain.NewValidationError(
				domain.FieldError{Field: "age_days", Message: "must be a whole number"}))
			return CreateItemRequest{}, nil, noop, false
		}
		req.AgeDays = days
	}

	file, header, err := r.FormFile(uploadField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil, cleanup, true
	case err != nil:
		cleanup()
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid file upload")
		return CreateItemRequest{}, nil, noop, false
	}

	if header.Size > h.maxUploadBytes {
		_ = file.Close()
		cleanup()
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Upload too large")
		return CreateItemRequest{}, nil, noop, false
	}

	return req, &service.Upload{Filename: header.Filename, Body: file}, func() {
		closeFile(r, file)
		cleanup()
	}, true
}

func closeFile(r *http.Request, f multipart.File) {
	if err := f.Close(); err != nil {
		logger.FromContext(r.Context()).Warn("failed to close upload", "error", err)
	}
}
