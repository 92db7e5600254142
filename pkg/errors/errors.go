package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStaleStatus 条件更新未命中：记录状态已被其他操作修改
var ErrStaleStatus = errors.New("记录状态已被其他操作修改，请刷新后重试")

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
	codeCheckViolation     = "23514"
)

// IsExclusionViolation 判断是否违反排他约束（礼堂时间段重叠）
func IsExclusionViolation(err error) bool {
	return hasCode(err, codeExclusionViolation)
}

// IsUniqueViolation 判断是否违反唯一约束
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsCheckViolation 判断是否违反 CHECK 约束
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
