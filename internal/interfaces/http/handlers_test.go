package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cafe-pos/internal/application/auth"
	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/application/checkout"
	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	apphttp "github.com/jhoicas/cafe-pos/internal/interfaces/http"
)

type operators map[string]*entity.Operator

func (o operators) FindByEmail(_ context.Context, email string) (*entity.Operator, error) {
	return o[email], nil
}

func (o operators) FindByID(context.Context, string) (*entity.Operator, error) { return nil, nil }

type okSubmitter struct{ orders []*entity.Order }

func (s *okSubmitter) Submit(_ context.Context, o *entity.Order) error {
	s.orders = append(s.orders, o)
	return nil
}

type fakeReceipts struct{}

func (fakeReceipts) GenerateReceipt(o *entity.Order) ([]byte, error) {
	return []byte("%PDF-1.3 " + o.ID), nil
}

type posFixture struct {
	app       *fiber.App
	cart      *cart.Cart
	submitter *okSubmitter
	movements *fakeMovements
}

// fakeMovements devuelve un movimiento fijo y recuerda la última consulta.
type fakeMovements struct {
	entryID       string
	from, to      *time.Time
	limit, offset int
}

func (m *fakeMovements) Create(context.Context, *entity.StockMovement) error { return nil }

func (m *fakeMovements) ListByStockEntry(_ context.Context, id string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	m.entryID, m.from, m.to, m.limit, m.offset = id, from, to, limit, offset
	return []*entity.StockMovement{{
		ID: "mov-1", OrderID: "ord-1", StockEntryID: id, Type: entity.MovementTypeSale,
		Quantity: d("-0.2"), Unit: "l", UnitCost: d("4000"), TotalCost: d("800"), CreatedBy: testOperatorID,
	}}, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newPOS arma la API completa sobre un catálogo de un litro de leche y un latte de 200 ml.
func newPOS(t *testing.T) *posFixture {
	t.Helper()
	snap := catalog.NewSnapshot(
		[]entity.StockEntry{
			{ID: "milk", Name: "Leche", Category: entity.CategoryLiquid, Unit: "l", Quantity: d("1"), AverageUnitCost: d("4000")},
			{ID: "syrup", Name: "Jarabe", Category: entity.CategoryLiquid, Unit: "ml", Quantity: d("100"), AverageUnitCost: d("20"), AddonPrice: d("60")},
		},
		[]entity.Recipe{{ID: "latte", Name: "Latte", Servings: []entity.Serving{
			{ID: "12oz", Name: "12 oz", Price: d("9000"), Ingredients: []entity.RecipeIngredient{
				{StockEntryID: "milk", Quantity: d("200"), Unit: "ml"},
			}},
		}}},
	)
	c := cart.NewCart(snap.Stock(), nil, nil)
	sub := &okSubmitter{}
	movs := &fakeMovements{}

	hash, err := bcrypt.GenerateFromPassword([]byte("cafe1234"), bcrypt.MinCost)
	require.NoError(t, err)
	authUC := auth.NewAuthUseCase(operators{"caja@cafe.co": {
		ID: testOperatorID, Email: "caja@cafe.co", PasswordHash: string(hash), Role: entity.RoleCashier, Status: "active",
	}}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Cart:      c,
		Catalog:   snap,
		Checkout:  checkout.NewSubmitOrderUseCase(c, snap.Stock(), sub, fakeReceipts{}, nil),
		AuthUC:    authUC,
		Movements: movs,
		JWTSecret: testJWTSecret,
	})
	return &posFixture{app: app, cart: c, submitter: sub, movements: movs}
}

func (f *posFixture) do(t *testing.T, method, path, token string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func linePath(id, suffix string) string {
	return "/api/cart/lines/" + url.PathEscape(id) + suffix
}

var addLatte = dto.AddLineRequest{RecipeID: "latte", ServingID: "12oz"}

func TestHealth(t *testing.T) {
	resp := newPOS(t).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_EmiteTokenUtilizable(t *testing.T) {
	f := newPOS(t)
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@cafe.co", Password: "cafe1234"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = f.do(t, http.MethodGet, "/api/cart", "Bearer "+login.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	resp := newPOS(t).do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@cafe.co", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCart_RequiereToken(t *testing.T) {
	resp := newPOS(t).do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalog_DisponibilidadEnVivo(t *testing.T) {
	f := newPOS(t)
	tok := tokenForRole(t, "cajero")

	recipes := decode[[]dto.RecipeResponse](t, f.do(t, http.MethodGet, "/api/catalog/recipes", tok, nil))
	require.Len(t, recipes, 1)
	sv := recipes[0].Servings[0]
	require.NotNil(t, sv.Available)
	assert.Equal(t, 5, *sv.Available)
	assert.Equal(t, "milk", sv.Bottleneck)
	require.NotNil(t, sv.Cost)
	assert.True(t, sv.Cost.Equal(d("800")), "0.2 l * 4000")

	f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte).Body.Close()
	f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte).Body.Close()

	recipes = decode[[]dto.RecipeResponse](t, f.do(t, http.MethodGet, "/api/catalog/recipes", tok, nil))
	assert.Equal(t, 3, *recipes[0].Servings[0].Available)
}

func TestCart_AgregarHastaAgotarYRechazo(t *testing.T) {
	f := newPOS(t)
	tok := tokenForRole(t, "cajero")

	var last dto.CartMutationResponse
	for i := 0; i < 5; i++ {
		resp := f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		last = decode[dto.CartMutationResponse](t, resp)
	}
	require.NotNil(t, last.Line)
	assert.Equal(t, 5, last.Line.Quantity)
	require.Len(t, last.Cart.Lines, 1)
	require.NotNil(t, last.Cart.Lines[0].MaxQuantity)
	assert.Equal(t, 5, *last.Cart.Lines[0].MaxQuantity)

	resp := f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	rej := decode[dto.RejectionResponse](t, resp)
	assert.Equal(t, "AVAILABILITY_EXCEEDED", rej.Code)
	assert.Equal(t, 6, rej.Requested)
	assert.Equal(t, 5, rej.Allowed)
	assert.Equal(t, 1, f.cart.Len(), "la línea sigue siendo una sola")
}

func TestCart_SetQuantityPorEncimaDelMaximoSeRechaza(t *testing.T) {
	f := newPOS(t)
	tok := tokenForRole(t, "cajero")
	added := decode[dto.CartMutationResponse](t, f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte))
	id := added.Line.ID

	seven := 7
	resp := f.do(t, http.MethodPut, linePath(id, ""), tok, dto.SetQuantityRequest{Quantity: &seven})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
	line, ok := f.cart.Line(id)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity, "la línea no cambia")

	four := 4
	resp = f.do(t, http.MethodPut, linePath(id, ""), tok, dto.SetQuantityRequest{Quantity: &four})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	avail := decode[dto.AvailabilityResponse](t, f.do(t, http.MethodGet, linePath(id, "/availability"), tok, nil))
	assert.Equal(t, 4, avail.Quantity)
	assert.Equal(t, 5, avail.MaxQuantity)
	assert.Equal(t, 1, avail.Additional)

	resp = f.do(t, http.MethodPut, linePath(id, ""), tok, dto.SetQuantityRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCart_IncrementDecrementYRemove(t *testing.T) {
	f := newPOS(t)
	tok := tokenForRole(t, "cajero")
	added := decode[dto.CartMutationResponse](t, f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte))
	id := added.Line.ID

	out := decode[dto.CartMutationResponse](t, f.do(t, http.MethodPost, linePath(id, "/increment"), tok, nil))
	assert.Equal(t, 2, out.Line.Quantity)

	out = decode[dto.CartMutationResponse](t, f.do(t, http.MethodPost, linePath(id, "/decrement"), tok, nil))
	assert.Equal(t, 1, out.Line.Quantity)

	out = decode[dto.CartMutationResponse](t, f.do(t, http.MethodPost, linePath(id, "/decrement"), tok, nil))
	assert.True(t, out.Removed)
	assert.Empty(t, out.Cart.Lines)

	resp := f.do(t, http.MethodDelete, linePath(id, ""), tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCart_AddonConInsumoInexistente(t *testing.T) {
	f := newPOS(t)
	req := dto.AddLineRequest{RecipeID: "latte", ServingID: "12oz", Addons: []dto.AddonRequest{
		{StockEntryID: "caramel", Quantity: d("10"), Unit: "ml"},
	}}
	resp := f.do(t, http.MethodPost, "/api/cart/lines", tokenForRole(t, "cajero"), req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DATA_INTEGRITY", body.Code)
}

func TestCart_PrecioDelAddonLoFijaElServidor(t *testing.T) {
	f := newPOS(t)
	body := map[string]any{
		"recipe_id": "latte", "serving_id": "12oz",
		"addons": []map[string]any{{"stock_entry_id": "syrup", "quantity": "10", "unit": "ml", "unit_price": "0"}},
	}
	resp := f.do(t, http.MethodPost, "/api/cart/lines", tokenForRole(t, "cajero"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.CartMutationResponse](t, resp)
	require.NotNil(t, out.Line)
	require.Len(t, out.Line.Addons, 1)
	assert.True(t, out.Line.Addons[0].UnitPrice.Equal(d("60")), "fue %s", out.Line.Addons[0].UnitPrice)
	// 9000 + 10 ml × 60
	assert.True(t, out.Line.UnitPrice.Equal(d("9600")), "fue %s", out.Line.UnitPrice)
}

func TestCart_RecetaInexistente(t *testing.T) {
	resp := newPOS(t).do(t, http.MethodPost, "/api/cart/lines", tokenForRole(t, "cajero"), dto.AddLineRequest{RecipeID: "mocha", ServingID: "12oz"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckout_JSONYCarritoVacio(t *testing.T) {
	f := newPOS(t)
	tok := tokenForRole(t, "cajero")
	f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte).Body.Close()

	resp := f.do(t, http.MethodPost, "/api/checkout", tok, dto.SubmitOrderRequest{OrderType: "dine_in"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)
	assert.True(t, order.Total.Equal(d("9000")))
	require.Len(t, f.submitter.orders, 1)
	assert.Equal(t, testOperatorID, f.submitter.orders[0].OperatorID)
	assert.Zero(t, f.cart.Len())

	resp = f.do(t, http.MethodPost, "/api/checkout", tok, dto.SubmitOrderRequest{OrderType: "dine_in"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_ComprobantePDF(t *testing.T) {
	f := newPOS(t)
	tok := tokenForRole(t, "cajero")
	f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte).Body.Close()

	resp := f.do(t, http.MethodPost, "/api/checkout", tok, dto.SubmitOrderRequest{OrderType: "take_away"}, "Accept", "application/pdf")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestCheckout_TipoInvalido(t *testing.T) {
	f := newPOS(t)
	tok := tokenForRole(t, "cajero")
	f.do(t, http.MethodPost, "/api/cart/lines", tok, addLatte).Body.Close()

	resp := f.do(t, http.MethodPost, "/api/checkout", tok, dto.SubmitOrderRequest{OrderType: "drive_thru"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, f.cart.Len())
}

func TestRecipePreview_SoloAdmin(t *testing.T) {
	f := newPOS(t)
	body := dto.RecipePreviewRequest{Edits: []dto.RecipeEditRequest{{Op: "set_recipe_name", Value: "Latte grande"}}}

	resp := f.do(t, http.MethodPost, "/api/recipes/latte/preview", tokenForRole(t, "cajero"), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/recipes/latte/preview", tokenForRole(t, "admin"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.RecipePreviewResponse](t, resp)
	assert.Equal(t, "Latte grande", out.Recipe.Name)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Issues)
}

func TestRecipePreview_ReportaHallazgos(t *testing.T) {
	f := newPOS(t)
	body := dto.RecipePreviewRequest{Edits: []dto.RecipeEditRequest{
		{Op: "add_ingredient", ServingIndex: 0, StockEntryID: "cocoa", Quantity: d("5"), Unit: "g"},
	}}
	resp := f.do(t, http.MethodPost, "/api/recipes/latte/preview", tokenForRole(t, "admin"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.RecipePreviewResponse](t, resp)
	assert.False(t, out.Valid)
	require.NotEmpty(t, out.Issues)
	assert.Equal(t, "missing_stock_entry", out.Issues[0].Code)
	assert.Len(t, f.cart.Lines(), 0)
}

func TestRecipePreview_OperacionDesconocida(t *testing.T) {
	f := newPOS(t)
	body := dto.RecipePreviewRequest{Edits: []dto.RecipeEditRequest{{Op: "rename_everything"}}}
	resp := f.do(t, http.MethodPost, "/api/recipes/latte/preview", tokenForRole(t, "admin"), body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/recipes/mocha/preview", tokenForRole(t, "admin"), dto.RecipePreviewRequest{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovements_SoloAdminYFiltros(t *testing.T) {
	f := newPOS(t)
	path := "/api/catalog/stock/milk/movements?from=2026-01-01T00:00:00Z&limit=10&offset=5"

	resp := f.do(t, http.MethodGet, path, tokenForRole(t, "cajero"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodGet, path, tokenForRole(t, "admin"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[[]dto.StockMovementResponse](t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, entity.MovementTypeSale, out[0].Type)
	assert.True(t, out[0].Quantity.Equal(d("-0.2")))

	assert.Equal(t, "milk", f.movements.entryID)
	require.NotNil(t, f.movements.from)
	assert.Equal(t, 2026, f.movements.from.Year())
	assert.Nil(t, f.movements.to)
	assert.Equal(t, 10, f.movements.limit)
	assert.Equal(t, 5, f.movements.offset)
}

func TestMovements_ParametrosInvalidos(t *testing.T) {
	f := newPOS(t)
	for _, q := range []string{"?from=ayer", "?limit=0", "?offset=-1"} {
		resp := f.do(t, http.MethodGet, "/api/catalog/stock/milk/movements"+q, tokenForRole(t, "admin"), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}
