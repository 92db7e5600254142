package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		t.Fatalf("注册校验规则应成功: %v", err)
	}

	type statusQuery struct {
		Status string `validate:"omitempty,booking_status"`
	}
	for _, s := range []string{"", "pending", "approved", "completed"} {
		if err := v.Struct(statusQuery{Status: s}); err != nil {
			t.Errorf("状态 %q 应通过校验: %v", s, err)
		}
	}
	if err := v.Struct(statusQuery{Status: "archived"}); err == nil {
		t.Error("未知状态应校验失败")
	}

	type upload struct {
		Kind string `validate:"required,upload_kind"`
	}
	if err := v.Struct(upload{Kind: "booking"}); err != nil {
		t.Errorf("booking 类别应通过校验: %v", err)
	}
	if err := v.Struct(upload{Kind: "avatar"}); err == nil {
		t.Error("未知上传类别应校验失败")
	}
}
