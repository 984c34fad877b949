package handlers_test

import (
	"bytes"
	"encoding/json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"inventra-backend/cmd/config"
	"inventra-backend/pkg/inventory"
	"inventra-backend/pkg/recipe"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	services := config.NewServicesWithRepositories(
		inventory.NewInMemoryInventoryRepository(),
		recipe.NewInMemoryRecipeRepository(),
	)
	return config.NewApp(services, nil)
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func createItem(t *testing.T, app *fiber.App, body fiber.Map) string {
	t.Helper()
	resp, env := do(t, app, http.MethodPost, "/api/v1/inventory", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)

	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	return item.ID
}

func createRecipe(t *testing.T, app *fiber.App, body fiber.Map) string {
	t.Helper()
	resp, env := do(t, app, http.MethodPost, "/api/v1/recipes", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)

	var r struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &r))
	return r.ID
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, env := do(t, app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Status)
	assert.Contains(t, string(env.Data), `"status":"healthy"`)
}

func TestInventoryCRUD(t *testing.T) {
	app := newTestApp(t)
	id := createItem(t, app, fiber.Map{"name": "Flour", "quantity": 500, "unit": "g", "minQuantity": 100})

	resp, env := do(t, app, http.MethodGet, "/api/v1/inventory/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var item map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, "Flour", item["name"])
	assert.Equal(t, 100.0, item["minQuantity"])
	assert.Equal(t, false, item["lowStock"])
	assert.Equal(t, "Other", item["category"])

	resp, _ = do(t, app, http.MethodPut, "/api/v1/inventory/"+id, fiber.Map{"name": "Flour", "quantity": 50, "unit": "g", "minQuantity": 100})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = do(t, app, http.MethodGet, "/api/v1/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var low []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &low))
	require.Len(t, low, 1)
	assert.Equal(t, id, low[0]["id"])

	resp, env = do(t, app, http.MethodGet, "/api/v1/inventory/"+id+"/transactions?page=1&limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var txns struct {
		Transactions []map[string]interface{} `json:"transactions"`
		Pagination   map[string]interface{}   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &txns))
	assert.Len(t, txns.Transactions, 1)
	assert.Equal(t, 2.0, txns.Pagination["total"])
	assert.Equal(t, 2.0, txns.Pagination["totalPages"])

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/inventory/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, http.MethodDelete, "/api/v1/inventory/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventoryErrorStatuses(t *testing.T) {
	app := newTestApp(t)
	createItem(t, app, fiber.Map{"name": "Flour", "quantity": 500, "unit": "g", "minQuantity": 100})

	resp, env := do(t, app, http.MethodPost, "/api/v1/inventory", fiber.Map{"name": "Salt", "quantity": 1, "unit": "lbs"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Status)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/inventory", fiber.Map{"name": "Salt", "quantity": -1, "unit": "g"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/inventory", fiber.Map{"name": "flour", "quantity": 1, "unit": "g"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/inventory/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/inventory/7d4f1c2e-3b8a-4f60-9c1d-2a5e6b7c8d90", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPrepareRecipeOverHTTP(t *testing.T) {
	app := newTestApp(t)
	flourID := createItem(t, app, fiber.Map{"name": "Flour", "quantity": 500, "unit": "g", "minQuantity": 100})
	toastID := createRecipe(t, app, fiber.Map{
		"name":        "Toast",
		"ingredients": []fiber.Map{{"name": "flour", "quantity": 200, "unit": "g"}},
	})
	breadID := createRecipe(t, app, fiber.Map{
		"name":        "Bread",
		"ingredients": []fiber.Map{{"name": "Flour", "quantity": 600, "unit": "g"}},
	})

	resp, env := do(t, app, http.MethodGet, "/api/v1/recipes/"+breadID+"/availability", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"available":false,"missingIngredients":[{"name":"Flour","required":600,"available":500,"unit":"g"}]}`, string(env.Data))

	resp, env = do(t, app, http.MethodPost, "/api/v1/recipes/"+toastID+"/prepare", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		InventoryUpdates []map[string]interface{} `json:"inventoryUpdates"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.InventoryUpdates, 1)
	assert.Equal(t, flourID, result.InventoryUpdates[0]["itemId"])
	assert.Equal(t, 300.0, result.InventoryUpdates[0]["newQuantity"])

	resp, env = do(t, app, http.MethodPost, "/api/v1/recipes/"+breadID+"/prepare", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Status)
	assert.JSONEq(t, `{"missingIngredients":[{"name":"Flour","required":600,"available":300,"unit":"g"}]}`, string(env.Data))

	resp, env = do(t, app, http.MethodGet, "/api/v1/recipes?with_availability=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 2)
	assert.Contains(t, listed[0], "availability")

	resp, _ = do(t, app, http.MethodPost, "/api/v1/recipes/7d4f1c2e-3b8a-4f60-9c1d-2a5e6b7c8d90/prepare", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecipeValidationOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/api/v1/recipes", fiber.Map{"name": "Air", "ingredients": []fiber.Map{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/recipes", fiber.Map{
		"name":        "Bread",
		"ingredients": []fiber.Map{{"name": "Flour", "quantity": 0, "unit": "g"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportInventory(t *testing.T) {
	app := newTestApp(t)
	createItem(t, app, fiber.Map{"name": "Flour", "quantity": 500, "unit": "g", "minQuantity": 100})
	createItem(t, app, fiber.Map{"name": "Eggs", "quantity": 2, "unit": "pcs", "minQuantity": 6})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/export", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "Eggs")
}
