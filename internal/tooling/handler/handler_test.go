package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/testutil"
	"github.com/gin-gonic/gin"
)

func TestServiceErrorClassification(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   float64
	}{
		{"invalid", fmt.Errorf("第 2 行: %w", service.ErrInvalidCandidate), http.StatusBadRequest, 40000},
		{"not found", fmt.Errorf("%w: 零件 x 不存在", repository.ErrNotFound), http.StatusNotFound, 40400},
		{"conflict", fmt.Errorf("%w: duplicate key", service.ErrConflict), http.StatusConflict, 40900},
		{"transient", fmt.Errorf("%w: connection refused", service.ErrTransient), http.StatusServiceUnavailable, 50300},
		{"internal", errors.New(`pq: column "x" does not exist (SQLSTATE 42703)`), http.StatusInternalServerError, 50000},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		ServiceError(c, tc.err)

		if w.Code != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.name, tc.status, w.Code)
		}
		resp := testutil.ParseResponse(w)
		if resp["code"].(float64) != tc.code {
			t.Errorf("%s: expected code %v, got %v", tc.name, tc.code, resp["code"])
		}
	}

	// 未分类错误不得把存储引擎细节带出边界
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ServiceError(c, errors.New(`pq: relation "cutting_orders" does not exist (SQLSTATE 42P01)`))
	if msg := testutil.ParseResponse(w)["message"].(string); strings.Contains(msg, "SQLSTATE") {
		t.Errorf("Raw storage error leaked to client: %s", msg)
	}
}
