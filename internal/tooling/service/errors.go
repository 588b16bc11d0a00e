package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// 错误类别：调用方据此区分"参数有误"、"并发冲突"与"暂时性故障"
var (
	// ErrInvalidCandidate 候选行既无 part_id 也无回退识别字段，无法建键
	ErrInvalidCandidate = errors.New("候选行缺少识别字段，无法构造业务主键")
	// ErrConflict 并发写入撞到唯一键，内部重试一次后仍失败
	ErrConflict = errors.New("并发写入冲突")
	// ErrTransient 连接/超时/串行化失败等暂时性存储故障
	ErrTransient = errors.New("存储暂时不可用")
)

// isSerializationFailure 串行化失败或死锁，换新快照重试一次即可恢复
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "SQLSTATE 40P01")
}

// isUniqueViolation 唯一约束冲突（业务主键撞键）
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "SQLSTATE 23505")
}

// isConnectionFailure 连接类故障
func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 08") || strings.Contains(msg, "connection refused")
}
