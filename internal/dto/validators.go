package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/KGLikith/Seminar-Hub-sub000/internal/model"
	"github.com/KGLikith/Seminar-Hub-sub000/pkg/storage"
)

// RegisterValidators 注册自定义校验规则到 gin 使用的 validator 实例
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		return err
	}
	return v.RegisterValidation("upload_kind", validateUploadKind)
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.BookingPending, model.BookingApproved, model.BookingRejected,
		model.BookingCancelled, model.BookingCompleted:
		return true
	}
	return false
}

func validateUploadKind(fl validator.FieldLevel) bool {
	_, ok := storage.PolicyFor(fl.Field().String())
	return ok
}
