package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// validator collects field errors so a request reports all of them at once.
type validator struct {
	errs []string
}

func (v *validator) add(msg string) {
	v.errs = append(v.errs, msg)
}

func (v *validator) id(field string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field + " is required")
		return
	}
	if _, err := uuid.Parse(value); err != nil {
		v.add(field + " must be a valid UUID")
	}
}

func (v *validator) amount(field string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field + " is required")
		return
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		v.add(field + " must be numeric")
	} else if parsed.LessThanOrEqual(decimal.Zero) {
		v.add(field + " must be greater than zero")
	}
}

func (v *validator) currency(field string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field + " is required")
	} else if len(value) != 3 {
		v.add(field + " must be 3 characters")
	}
}

func (v *validator) required(field string, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field + " is required")
	}
}

func (v *validator) err() error {
	if len(v.errs) > 0 {
		return errors.New(strings.Join(v.errs, "; "))
	}
	return nil
}
