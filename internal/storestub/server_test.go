package storestub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	grocery "github.com/Apurer/grocery-store-client/internal/clients/http/grocery"
	itemsmemory "github.com/Apurer/grocery-store-client/internal/domains/items/adapters/memory"
	itemsapp "github.com/Apurer/grocery-store-client/internal/domains/items/application"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	"github.com/Apurer/grocery-store-client/internal/domains/items/ports"
	apierrors "github.com/Apurer/grocery-store-client/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newStub(t *testing.T, opts ...Option) (*gin.Engine, *itemsmemory.Repository) {
	t.Helper()
	repo := itemsmemory.NewRepository()
	return NewRouter(context.Background(), repo, opts...), repo
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestListItems_SeedsEmptyStore(t *testing.T) {
	router, _ := newStub(t)

	rec := do(t, router, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []itemResource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)
	require.Equal(t, "Carrot", items[0].Name)
	require.Equal(t, 1.5, items[0].Price)
	require.Equal(t, 10, items[0].Quantity)
	require.NotEmpty(t, items[0].ID)
}

func TestListItems_KeepsExistingData(t *testing.T) {
	repo := itemsmemory.NewRepository()
	repo.Seed(domain.Item{ID: "a1", Name: "Milk", Price: 3.5, Quantity: 2})
	router := NewRouter(context.Background(), repo)

	rec := do(t, router, http.MethodGet, "/items", "")
	require.JSONEq(t, `[{"_id":"a1","name":"Milk","price":3.5,"quantity":2}]`, rec.Body.String())
}

func TestAddItem(t *testing.T) {
	router, repo := newStub(t, WithoutSeed(), WithBasePath("/api/"))

	rec := do(t, router, http.MethodPost, "/api/items", `{"name":"Bread","price":2.0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created["id"])

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Item{{ID: created["id"], Name: "Bread", Price: 2, Quantity: 0}}, items)
}

func TestAddItem_ValidationFailures(t *testing.T) {
	router, repo := newStub(t, WithoutSeed())

	rec := do(t, router, http.MethodPost, "/items", `{"quantity":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "required", problem.Fields["name"])
	require.Equal(t, "required", problem.Fields["price"])

	rec = do(t, router, http.MethodPost, "/items", `{"name":"Bread","price":"cheap"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Zero(t, repo.Len())
}

func TestUpdateItem(t *testing.T) {
	router, repo := newStub(t, WithoutSeed())
	repo.Seed(domain.Item{ID: "a1", Name: "Milk", Price: 3.5, Quantity: 2})

	rec := do(t, router, http.MethodPut, "/items/a1", `{"name":"Oat milk","price":4,"quantity":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Item updated"}`, rec.Body.String())
	items, _ := repo.List(context.Background())
	require.Equal(t, domain.Item{ID: "a1", Name: "Oat milk", Price: 4, Quantity: 7}, items[0])

	rec = do(t, router, http.MethodPut, "/items/zz", `{"name":"x","price":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Item not found", decodeProblem(t, rec).Detail)
}

func TestDeleteItem(t *testing.T) {
	router, repo := newStub(t, WithoutSeed())
	repo.Seed(domain.Item{ID: "a1", Name: "Milk"})

	rec := do(t, router, http.MethodDelete, "/items/a1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, repo.Len())

	rec = do(t, router, http.MethodDelete, "/items/a1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateQuantity(t *testing.T) {
	router, repo := newStub(t, WithoutSeed())
	repo.Seed(domain.Item{ID: "a1", Name: "Milk", Quantity: 0})

	rec := do(t, router, http.MethodPut, "/items/a1/quantity?action=remove", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items, _ := repo.List(context.Background())
	require.Equal(t, -1, items[0].Quantity)

	rec = do(t, router, http.MethodPut, "/items/a1/quantity?action=double", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid action", decodeProblem(t, rec).Detail)

	rec = do(t, router, http.MethodPut, "/items/a1/quantity", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, router, http.MethodPut, "/items/zz/quantity?action=add", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestControllerAgainstStub(t *testing.T) {
	router, _ := newStub(t, WithBasePath("/api"))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	store, err := grocery.NewClient(srv.URL+"/api", srv.Client())
	require.NoError(t, err)
	ctrl := itemsapp.NewController(store)
	t.Cleanup(ctrl.Close)
	ctx := context.Background()

	require.NoError(t, ctrl.Refresh(ctx))
	require.Len(t, ctrl.Items(), 3)

	require.NoError(t, ctrl.SetNewField(domain.FieldName, "Bread"))
	require.NoError(t, ctrl.SetNewField(domain.FieldPrice, "2.0"))
	require.NoError(t, ctrl.SetNewField(domain.FieldQuantity, "5"))
	require.NoError(t, ctrl.Commit(ctx))
	items := ctrl.Items()
	require.Len(t, items, 4)
	bread := items[3]
	require.Equal(t, domain.Fields{Name: "Bread", Price: 2, Quantity: 5}, bread.Fields())
	require.Equal(t, domain.NewFields(), ctrl.NewDraft())

	require.NoError(t, ctrl.BeginEdit(bread.ID))
	require.NoError(t, ctrl.SetEditField(domain.FieldPrice, "2.25"))
	require.NoError(t, ctrl.Commit(ctx))
	require.False(t, ctrl.Mode().Editing())
	require.Equal(t, 2.25, ctrl.Items()[3].Price)

	require.NoError(t, ctrl.Adjust(ctx, bread.ID, domain.Increment))
	require.Equal(t, 6, ctrl.Items()[3].Quantity)

	require.NoError(t, ctrl.Delete(ctx, bread.ID))
	require.Len(t, ctrl.Items(), 3)

	require.NoError(t, ctrl.Delete(ctx, bread.ID))
	require.Equal(t, itemsapp.StatusWarning, ctrl.Status().Level)

	err = ctrl.Adjust(ctx, bread.ID, domain.Decrement)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Equal(t, itemsapp.StatusError, ctrl.Status().Level)
}
