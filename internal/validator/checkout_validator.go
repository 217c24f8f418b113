package validator

import (
	"errors"
	"strings"

	"gallery/internal/usecase"
)

type shippingValidator struct{}

func NewShippingValidator() usecase.ShippingValidator {
	return &shippingValidator{}
}

// 配送先は境界で1回だけ検証する。usecase側では再検証しない
func (v *shippingValidator) ValidateShipping(in usecase.ShippingInfo) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("shipping name required")
	}
	if strings.TrimSpace(in.PostalCode) == "" {
		return errors.New("shipping postal_code required")
	}
	if strings.TrimSpace(in.Prefecture) == "" {
		return errors.New("shipping prefecture required")
	}
	if strings.TrimSpace(in.City) == "" {
		return errors.New("shipping city required")
	}
	if strings.TrimSpace(in.Line1) == "" {
		return errors.New("shipping line1 required")
	}
	if len(in.Name) > 255 || len(in.City) > 255 || len(in.Line1) > 255 || len(in.Line2) > 255 {
		return errors.New("shipping field too long")
	}
	if len(in.PostalCode) > 20 || len(in.Prefecture) > 100 || len(in.Phone) > 30 {
		return errors.New("shipping field too long")
	}
	return nil
}
