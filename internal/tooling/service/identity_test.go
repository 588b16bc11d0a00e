package service

import (
	"errors"
	"testing"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
)

func strPtr(s string) *string { return &s }

func TestCuttingOrderKeyPartIDWins(t *testing.T) {
	// 有零件引用时三元组字段全部忽略
	a := &CuttingOrderCandidate{PartID: strPtr("part-001"), PartDrawingNumber: "DWG-1", MaterialSource: "自制"}
	b := &CuttingOrderCandidate{PartID: strPtr("part-001"), PartDrawingNumber: "DWG-2", MaterialSource: "外购"}

	ka, err := cuttingOrderKey("t1", a)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	kb, err := cuttingOrderKey("t2", b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ka != kb {
		t.Errorf("Expected identical keys for same part_id, got %q vs %q", ka, kb)
	}
}

func TestCuttingOrderKeyFallback(t *testing.T) {
	c := &CuttingOrderCandidate{PartDrawingNumber: "DWG-1", MaterialSource: "自制"}

	k1, err := cuttingOrderKey("t1", c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	k2, _ := cuttingOrderKey("t1", c)
	if k1 != k2 {
		t.Errorf("Key must be stable across calls: %q vs %q", k1, k2)
	}

	// 不同工装下同图号不同键
	k3, _ := cuttingOrderKey("t2", c)
	if k1 == k3 {
		t.Errorf("Expected different keys for different toolings")
	}

	// 空 part_id 指针视同缺失，走回退键
	empty := ""
	c2 := &CuttingOrderCandidate{PartID: &empty, PartDrawingNumber: "DWG-1", MaterialSource: "自制"}
	k4, err := cuttingOrderKey("t1", c2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if k4 != k1 {
		t.Errorf("Empty part_id should fall back to triple key")
	}
}

func TestCuttingOrderKeyInvalid(t *testing.T) {
	cases := []*CuttingOrderCandidate{
		{},
		{PartDrawingNumber: "DWG-1"},
		{MaterialSource: "自制"},
	}
	for i, c := range cases {
		if _, err := cuttingOrderKey("t1", c); !errors.Is(err, ErrInvalidCandidate) {
			t.Errorf("Case %d: expected ErrInvalidCandidate, got %v", i, err)
		}
	}

	// 工装ID缺失同样拒绝
	if _, err := cuttingOrderKey("", &CuttingOrderCandidate{PartDrawingNumber: "DWG-1", MaterialSource: "自制"}); !errors.Is(err, ErrInvalidCandidate) {
		t.Errorf("Expected ErrInvalidCandidate for missing tooling id, got %v", err)
	}
}

func TestPurchaseOrderKey(t *testing.T) {
	withPart := &PurchaseOrderCandidate{PartID: strPtr("part-001"), PartName: "轴承"}
	k1, err := purchaseOrderKey("t1", withPart)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	standard := &PurchaseOrderCandidate{PartName: "轴承"}
	k2, err := purchaseOrderKey("t1", standard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if k1 == k2 {
		t.Errorf("Part-backed and standard rows must not collide")
	}

	if _, err := purchaseOrderKey("t1", &PurchaseOrderCandidate{}); !errors.Is(err, ErrInvalidCandidate) {
		t.Errorf("Expected ErrInvalidCandidate for nameless standard row, got %v", err)
	}
}

func TestRecordKeyMatchesCandidateKey(t *testing.T) {
	// 已存记录和候选行必须走同一套键规则，否则对账永远匹配不上
	c := &CuttingOrderCandidate{PartDrawingNumber: "DWG-9", MaterialSource: "外购"}
	ck, _ := cuttingOrderKey("t1", c)

	rec := &entity.CuttingOrder{ToolingID: "t1", PartDrawingNumber: "DWG-9", MaterialSource: "外购"}
	if rk := cuttingRecordKey(rec); rk != ck {
		t.Errorf("Record key %q != candidate key %q", rk, ck)
	}

	pc := &PurchaseOrderCandidate{PartID: strPtr("part-5"), PartName: "螺栓"}
	pk, _ := purchaseOrderKey("t1", pc)
	prec := &entity.PurchaseOrder{ToolingID: "t1", PartID: strPtr("part-5"), PartName: "改名了"}
	if rk := purchaseRecordKey(prec); rk != pk {
		t.Errorf("Record key %q != candidate key %q", rk, pk)
	}
}

func TestCuttingPayloadEqual(t *testing.T) {
	w := 1.5
	rec := &entity.CuttingOrder{
		PartDrawingNumber: "DWG-1", MaterialSource: "自制", PartName: "底板",
		Material: "Q235", Specification: "100x50", Quantity: 2, Weight: &w,
	}
	same := &CuttingOrderCandidate{
		PartDrawingNumber: "DWG-1", MaterialSource: "自制", PartName: "底板",
		Material: "Q235", Specification: "100x50", Quantity: 2, Weight: &w,
	}
	if !cuttingPayloadEqual(rec, same) {
		t.Errorf("Expected equal payloads")
	}

	renamed := *same
	renamed.PartName = "底板v2"
	if cuttingPayloadEqual(rec, &renamed) {
		t.Errorf("Expected unequal payloads after rename")
	}

	noWeight := *same
	noWeight.Weight = nil
	if cuttingPayloadEqual(rec, &noWeight) {
		t.Errorf("nil weight must differ from set weight")
	}
}

func TestCandidateNormalizeEmptyRefs(t *testing.T) {
	c := CuttingOrderCandidate{PartID: strPtr(""), PartDrawingNumber: "DWG-1", MaterialSource: "自制"}
	c.normalize()
	if c.PartID != nil {
		t.Errorf("Empty part_id must normalize to nil, got %q", *c.PartID)
	}

	kept := CuttingOrderCandidate{PartID: strPtr("part-1")}
	kept.normalize()
	if kept.PartID == nil || *kept.PartID != "part-1" {
		t.Errorf("Non-empty part_id must survive normalize")
	}

	p := PurchaseOrderCandidate{PartID: strPtr(""), ChildItemID: strPtr(""), PartName: "轴承"}
	p.normalize()
	if p.PartID != nil || p.ChildItemID != nil {
		t.Errorf("Empty refs must normalize to nil, got part_id=%v child_item_id=%v", p.PartID, p.ChildItemID)
	}
}
