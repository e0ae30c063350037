package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/secondchance-api/internal/domain"
	"github.com/phrazzld/secondchance-api/internal/mocks"
	"github.com/phrazzld/secondchance-api/internal/service"
	"github.com/phrazzld/secondchance-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRouter(h *ItemHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/items", h.List)
	r.Post("/items", h.Create)
	r.Get("/items/{id}", h.Get)
	r.Put("/items/{id}", h.Update)
	r.Delete("/items/{id}", h.Delete)
	return r
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/items", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestItemHandler_List(t *testing.T) {
	t.Parallel()

	t.Run("items", func(t *testing.T) {
		h := NewItemHandler(&mocks.MockItemService{Items: []domain.Item{{ID: "1"}, {ID: "2"}}}, 1<<20)
		w := httptest.NewRecorder()
		itemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))

		require.Equal(t, http.StatusOK, w.Code)
		items := decodeBody[[]domain.Item](t, w)
		assert.Len(t, items, 2)
	})

	t.Run("empty catalog is an empty array", func(t *testing.T) {
		h := NewItemHandler(&mocks.MockItemService{}, 1<<20)
		w := httptest.NewRecorder()
		itemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("store unavailable", func(t *testing.T) {
		h := NewItemHandler(&mocks.MockItemService{Err: service.ErrStoreUnavailable}, 1<<20)
		w := httptest.NewRecorder()
		itemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestItemHandler_CreateJSON(t *testing.T) {
	t.Parallel()

	var got domain.ItemFields
	svc := &mocks.MockItemService{
		CreateFn: func(_ context.Context, f domain.ItemFields, upload *service.Upload) (*domain.Item, error) {
			got = f
			assert.Nil(t, upload)
			return &domain.Item{ID: "7"}, nil
		},
	}
	h := NewItemHandler(svc, 1<<20)

	w := httptest.NewRecorder()
	itemRouter(h).ServeHTTP(w, jsonRequest(t, http.MethodPost, "/items", map[string]interface{}{
		"name": "Lamp", "category": "Lighting", "condition": "Good", "age_days": 30,
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `"7"`, w.Body.String())
	assert.Equal(t, "/items/7", w.Header().Get("Location"))
	assert.Equal(t, domain.ItemFields{Name: "Lamp", Category: "Lighting", Condition: "Good", AgeDays: 30}, got)
}

func TestItemHandler_CreateRejectsBadInput(t *testing.T) {
	t.Parallel()

	h := NewItemHandler(&mocks.MockItemService{Item: &domain.Item{ID: "1"}}, 1<<20)

	bodies := map[string]interface{}{
		"missing name":     map[string]interface{}{"category": "c", "condition": "c"},
		"negative age":     map[string]interface{}{"name": "n", "category": "c", "condition": "c", "age_days": -1},
		"client chosen id": map[string]interface{}{"id": "99", "name": "n", "category": "c", "condition": "c"},
		"blank category":   map[string]interface{}{"name": "n", "category": "   ", "condition": "c"},
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			itemRouter(h).ServeHTTP(w, jsonRequest(t, http.MethodPost, "/items", body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestItemHandler_CreateMultipart(t *testing.T) {
	t.Parallel()

	fields := map[string]string{
		"name": "Lamp", "category": "Lighting", "condition": "Good", "zipcode": "94110", "age_days": "400",
	}

	t.Run("with image", func(t *testing.T) {
		var (
			gotFields domain.ItemFields
			gotName   string
			gotBytes  []byte
		)
		svc := &mocks.MockItemService{
			CreateFn: func(_ context.Context, f domain.ItemFields, upload *service.Upload) (*domain.Item, error) {
				gotFields = f
				require.NotNil(t, upload)
				gotName = upload.Filename
				var err error
				gotBytes, err = io.ReadAll(upload.Body)
				require.NoError(t, err)
				return &domain.Item{ID: "3"}, nil
			},
		}
		h := NewItemHandler(svc, 1<<20)

		w := httptest.NewRecorder()
		itemRouter(h).ServeHTTP(w, multipartRequest(t, fields, "lamp.png", []byte("image-bytes")))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `"3"`, w.Body.String())
		assert.Equal(t, 400, gotFields.AgeDays)
		assert.Equal(t, "94110", gotFields.Zipcode)
		assert.Equal(t, "lamp.png", gotName)
		assert.Equal(t, []byte("image-bytes"), gotBytes)
	})

	t.Run("without image", func(t *testing.T) {
		svc := &mocks.MockItemService{
			CreateFn: func(_ context.Context, _ domain.ItemFields, upload *service.Upload) (*domain.Item, error) {
				assert.Nil(t, upload)
				return &domain.Item{ID: "4"}, nil
			},
		}
		w := httptest.NewRecorder()
		itemRouter(NewItemHandler(svc, 1<<20)).ServeHTTP(w, multipartRequest(t, fields, "", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("non numeric age", func(t *testing.T) {
		bad := map[string]string{"name": "Lamp", "category": "c", "condition": "c", "age_days": "old"}
		w := httptest.NewRecorder()
		itemRouter(NewItemHandler(&mocks.MockItemService{}, 1<<20)).ServeHTTP(w, multipartRequest(t, bad, "", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("image over the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		itemRouter(NewItemHandler(&mocks.MockItemService{}, 16)).
			ServeHTTP(w, multipartRequest(t, fields, "big.png", bytes.Repeat([]byte("x"), 1024)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("body over the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		itemRouter(NewItemHandler(&mocks.MockItemService{}, 16)).
			ServeHTTP(w, multipartRequest(t, fields, "huge.png", bytes.Repeat([]byte("x"), 256<<10)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("asset store failure", func(t *testing.T) {
		svc := &mocks.MockItemService{Err: service.ErrAssetStore}
		w := httptest.NewRecorder()
		itemRouter(NewItemHandler(svc, 1<<20)).ServeHTTP(w, multipartRequest(t, fields, "lamp.png", []byte("x")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestItemHandler_Get(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockItemService{
		GetFn: func(_ context.Context, id string) (*domain.Item, error) {
			if id == "1" {
				return &domain.Item{ID: "1", Name: "Lamp", DateAdded: 1700000000}, nil
			}
			return nil, store.ErrItemNotFound
		},
	}
	router := itemRouter(NewItemHandler(svc, 1<<20))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	item := decodeBody[domain.Item](t, w)
	assert.Equal(t, "Lamp", item.Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/01", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemHandler_Update(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		var gotPatch domain.ItemPatch
		svc := &mocks.MockItemService{
			UpdateFn: func(_ context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
				gotPatch = patch
				return &domain.Item{ID: id, AgeDays: 730, AgeYears: 2.0}, nil
			},
		}
		w := httptest.NewRecorder()
		itemRouter(NewItemHandler(svc, 1<<20)).ServeHTTP(w,
			jsonRequest(t, http.MethodPut, "/items/5", map[string]interface{}{"age_days": 730}))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[UpdateItemResponse](t, w)
		assert.Equal(t, UpdateSucceeded, resp.Uploaded)
		require.NotNil(t, resp.Item)
		assert.Equal(t, 2.0, resp.Item.AgeYears)
		require.NotNil(t, gotPatch.AgeDays)
		assert.Equal(t, 730, *gotPatch.AgeDays)
		assert.Nil(t, gotPatch.Category)
	})

	t.Run("vanished mid-update", func(t *testing.T) {
		svc := &mocks.MockItemService{Err: service.ErrItemUpdateFailed}
		w := httptest.NewRecorder()
		itemRouter(NewItemHandler(svc, 1<<20)).ServeHTTP(w,
			jsonRequest(t, http.MethodPut, "/items/5", map[string]interface{}{"condition": "Fair"}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uploaded":"failed"}`, w.Body.String())
	})

	tests := []struct {
		name       string
		body       interface{}
		svcErr     error
		wantStatus int
	}{
		{"not found", map[string]interface{}{"condition": "Fair"}, store.ErrItemNotFound, http.StatusNotFound},
		{"immutable field", map[string]interface{}{"name": "Renamed"}, nil, http.StatusBadRequest},
		{"negative age", map[string]interface{}{"age_days": -3}, nil, http.StatusBadRequest},
		{"wrong type", map[string]interface{}{"age_days": "ten"}, nil, http.StatusBadRequest},
		{"empty patch", map[string]interface{}{}, nil, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockItemService{Err: tc.svcErr, Item: &domain.Item{ID: "5"}}
			w := httptest.NewRecorder()
			itemRouter(NewItemHandler(svc, 1<<20)).ServeHTTP(w, jsonRequest(t, http.MethodPut, "/items/5", tc.body))
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestItemHandler_Delete(t *testing.T) {
	t.Parallel()

	deleted := map[string]bool{}
	svc := &mocks.MockItemService{
		DeleteFn: func(_ context.Context, id string) error {
			if deleted[id] {
				return store.ErrItemNotFound
			}
			deleted[id] = true
			return nil
		},
	}
	router := itemRouter(NewItemHandler(svc, 1<<20))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/items/2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":"success"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/items/2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Item not found", body["error"])
}
