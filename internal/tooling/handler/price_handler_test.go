package handler

import (
	"net/http"
	"testing"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/testutil"
	"go.uber.org/zap"
)

func setupPriceTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, nil, zap.NewNop())
	h := NewPriceHandler(services.Price)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/materials", h.ListMaterials)
	api.POST("/materials", h.CreateMaterial)
	api.GET("/materials/:id", h.GetMaterial)
	api.GET("/materials/:id/price", h.ResolvePrice)
	api.GET("/materials/:id/prices", h.ListPrices)
	api.POST("/materials/:id/prices", h.AddPrice)
	api.DELETE("/material-prices/:id", h.DeletePrice)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func addPrice(t *testing.T, env *testutil.TestEnv, token, materialID string, price float64, start, end string) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{
		"unit_price":           price,
		"effective_start_date": start,
	}
	if end != "" {
		body["effective_end_date"] = end
	}
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/materials/"+materialID+"/prices", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 adding price, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func resolvePrice(t *testing.T, env *testutil.TestEnv, token, materialID, asOf string) float64 {
	t.Helper()
	path := "/api/v1/materials/" + materialID + "/price"
	if asOf != "" {
		path += "?as_of=" + asOf
	}
	w := testutil.DoRequest(env.Router, "GET", path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 resolving price, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	return data["unit_price"].(float64)
}

func TestResolvePriceTimeline(t *testing.T) {
	env := setupPriceTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedMaterial(t, env.DB, "mat-001", "Q235", "碳素结构钢")

	// 没有任何价格：返回 0 而不是报错
	if got := resolvePrice(t, env, token, "mat-001", ""); got != 0 {
		t.Errorf("Expected 0 with no prices, got %v", got)
	}

	addPrice(t, env, token, "mat-001", 22.6, "2025-11-24", "2025-12-31")
	addPrice(t, env, token, "mat-001", 25.5, "2025-12-01", "2025-12-31")
	addPrice(t, env, token, "mat-001", 28, "2026-01-01", "2026-01-31")
	addPrice(t, env, token, "mat-001", 30, "2026-02-01", "")

	cases := []struct {
		asOf string
		want float64
	}{
		{"2025-11-20", 0},    // 任何周期开始之前
		{"2025-12-15", 22.6}, // 重叠周期按 start 升序第一条胜出
		{"2026-01-15", 28},
		{"2026-02-15", 30},
		{"2027-01-01", 30}, // 开区间一直有效
		{"", 30},           // 未带日期取最新声明
	}
	for _, tc := range cases {
		if got := resolvePrice(t, env, token, "mat-001", tc.asOf); got != tc.want {
			t.Errorf("as_of=%q: expected %v, got %v", tc.asOf, tc.want, got)
		}
	}
}

func TestAddPriceValidation(t *testing.T) {
	env := setupPriceTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedMaterial(t, env.DB, "mat-001", "Q235", "碳素结构钢")

	// 失效日期早于生效日期
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/materials/mat-001/prices",
		map[string]interface{}{"unit_price": 10, "effective_start_date": "2026-02-01", "effective_end_date": "2026-01-01"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for end before start, got %d: %s", w.Code, w.Body.String())
	}

	// 日期格式错误
	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/materials/mat-001/prices",
		map[string]interface{}{"unit_price": 10, "effective_start_date": "01/02/2026"}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for bad date format, got %d: %s", w2.Code, w2.Body.String())
	}

	// 同一材料同一生效日期只能有一条
	addPrice(t, env, token, "mat-001", 10, "2026-01-01", "")
	w3 := testutil.DoRequest(env.Router, "POST", "/api/v1/materials/mat-001/prices",
		map[string]interface{}{"unit_price": 11, "effective_start_date": "2026-01-01"}, token)
	if w3.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate start date, got %d: %s", w3.Code, w3.Body.String())
	}

	// 材料不存在
	w4 := testutil.DoRequest(env.Router, "POST", "/api/v1/materials/no-such/prices",
		map[string]interface{}{"unit_price": 10, "effective_start_date": "2026-01-01"}, token)
	if w4.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown material, got %d: %s", w4.Code, w4.Body.String())
	}
}

func TestDeletePrice(t *testing.T) {
	env := setupPriceTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedMaterial(t, env.DB, "mat-001", "Q235", "碳素结构钢")

	p1 := addPrice(t, env, token, "mat-001", 10, "2026-01-01", "")
	addPrice(t, env, token, "mat-001", 12, "2026-02-01", "")

	w := testutil.DoRequest(env.Router, "DELETE", "/api/v1/material-prices/"+p1["id"].(string), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/materials/mat-001/prices", nil, token)
	prices := testutil.ParseResponse(w2)["data"].([]interface{})
	if len(prices) != 1 {
		t.Fatalf("Expected 1 remaining price, got %d", len(prices))
	}

	// 删到不存在的ID报404
	w3 := testutil.DoRequest(env.Router, "DELETE", "/api/v1/material-prices/"+p1["id"].(string), nil, token)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for gone price, got %d", w3.Code)
	}
}

func TestCreateMaterialDuplicateCode(t *testing.T) {
	env := setupPriceTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/materials",
		map[string]interface{}{"code": "Q235", "name": "碳素结构钢"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/materials",
		map[string]interface{}{"code": "Q235", "name": "重复编码"}, token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate code, got %d: %s", w2.Code, w2.Body.String())
	}
}
