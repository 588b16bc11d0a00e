package handler

import (
	"net/http"
	"testing"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/testutil"
	"go.uber.org/zap"
)

func setupPartTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, nil, zap.NewNop())
	h := NewPartHandler(services.Part)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/toolings/:id/parts", h.List)
	api.POST("/toolings/:id/parts", h.Create)
	api.GET("/toolings/:id/parts/next-code", h.NextCode)
	api.PUT("/parts/:id", h.Update)
	api.DELETE("/parts/:id", h.Delete)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createPart(t *testing.T, env *testutil.TestEnv, token, toolingID, name string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/toolings/"+toolingID+"/parts",
		map[string]interface{}{"name": name}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 creating part %s, got %d: %s", name, w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestPartCodeSequence(t *testing.T) {
	env := setupPartTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTooling(t, env.DB, "tool-001", "冲压模具", "AUTO002")

	// 顺序创建三个零件：AUTO00201 / AUTO00202 / AUTO00203
	expected := []string{"AUTO00201", "AUTO00202", "AUTO00203"}
	var second string
	for i, want := range expected {
		data := createPart(t, env, token, "tool-001", "零件")
		if got := data["part_inventory_number"].(string); got != want {
			t.Errorf("Part %d: expected code %s, got %s", i+1, want, got)
		}
		if i == 1 {
			second = data["id"].(string)
		}
	}

	// 删除中间零件后新建：序号不回收，直接 AUTO00204
	w := testutil.DoRequest(env.Router, "DELETE", "/api/v1/parts/"+second, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 deleting part, got %d: %s", w.Code, w.Body.String())
	}
	data := createPart(t, env, token, "tool-001", "补充零件")
	if got := data["part_inventory_number"].(string); got != "AUTO00204" {
		t.Errorf("Expected AUTO00204 after deletion (no reuse), got %s", got)
	}
}

func TestPartCodeNextCodePreview(t *testing.T) {
	env := setupPartTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTooling(t, env.DB, "tool-001", "冲压模具", "AUTO002")

	// 预览不占号：连问两次都是 01
	for i := 0; i < 2; i++ {
		w := testutil.DoRequest(env.Router, "GET", "/api/v1/toolings/tool-001/parts/next-code", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		data := testutil.ParseResponse(w)["data"].(map[string]interface{})
		if data["part_inventory_number"] != "AUTO00201" {
			t.Errorf("Preview %d: expected AUTO00201, got %v", i+1, data["part_inventory_number"])
		}
	}

	createPart(t, env, token, "tool-001", "零件")

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/toolings/tool-001/parts/next-code", nil, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["part_inventory_number"] != "AUTO00202" {
		t.Errorf("Expected AUTO00202 after one part, got %v", data["part_inventory_number"])
	}
}

func TestPartCodeManualOverride(t *testing.T) {
	env := setupPartTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTooling(t, env.DB, "tool-001", "冲压模具", "AUTO002")

	// 显式指定编码原样保存，不走派生
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/toolings/tool-001/parts",
		map[string]interface{}{"name": "手工编码件", "part_inventory_number": "CUSTOM-99"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["part_inventory_number"] != "CUSTOM-99" {
		t.Errorf("Expected CUSTOM-99 verbatim, got %v", data["part_inventory_number"])
	}

	// 手工编码不影响后续派生序号
	next := createPart(t, env, token, "tool-001", "派生件")
	if next["part_inventory_number"] != "AUTO00201" {
		t.Errorf("Expected AUTO00201 after manual code, got %v", next["part_inventory_number"])
	}

	// 同编码再建撞唯一索引
	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/toolings/tool-001/parts",
		map[string]interface{}{"name": "重复编码件", "part_inventory_number": "CUSTOM-99"}, token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate code, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestPartCodeManualSharedPrefix(t *testing.T) {
	env := setupPartTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTooling(t, env.DB, "tool-001", "冲压模具", "AUTO002")

	first := createPart(t, env, token, "tool-001", "派生件一")
	if first["part_inventory_number"] != "AUTO00201" {
		t.Fatalf("Expected AUTO00201, got %v", first["part_inventory_number"])
	}

	// 手工编码与派生前缀同形且同长，但尾部非数字：不参与序号推导
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/toolings/tool-001/parts",
		map[string]interface{}{"name": "手工编码件", "part_inventory_number": "AUTO002XY"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	next := createPart(t, env, token, "tool-001", "派生件二")
	if next["part_inventory_number"] != "AUTO00202" {
		t.Errorf("Expected AUTO00202 unaffected by manual code, got %v", next["part_inventory_number"])
	}
}

func TestPartCodeUncodedParent(t *testing.T) {
	env := setupPartTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTooling(t, env.DB, "tool-002", "未编码工装", "")

	data := createPart(t, env, token, "tool-002", "零件")
	if code, ok := data["part_inventory_number"].(string); ok && code != "" {
		t.Errorf("Expected empty code under uncoded tooling, got %q", code)
	}

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/toolings/tool-002/parts/next-code", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	preview := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if code, ok := preview["part_inventory_number"].(string); ok && code != "" {
		t.Errorf("Expected empty preview under uncoded tooling, got %q", code)
	}
}

func TestPartUpdateKeepsCode(t *testing.T) {
	env := setupPartTest(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTooling(t, env.DB, "tool-001", "冲压模具", "AUTO002")

	data := createPart(t, env, token, "tool-001", "原名")
	partID := data["id"].(string)

	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/parts/"+partID,
		map[string]interface{}{"name": "改名", "quantity": 6}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var part entity.Part
	env.DB.First(&part, "id = ?", partID)
	if part.Name != "改名" || part.Quantity != 6 {
		t.Errorf("Update not applied: %+v", part)
	}
	if part.PartInventoryNumber != "AUTO00201" {
		t.Errorf("Code must not change on update, got %s", part.PartInventoryNumber)
	}
}
