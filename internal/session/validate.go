package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vovakirdan/roomchat-server/internal/core"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode unmarshals data into dst. Empty and null payloads leave dst
// untouched, so callers pre-fill defaults.
func decode(data json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return core.InvalidRequest("malformed payload")
	}
	return nil
}

// check runs struct validation and turns the first failure into an
// invalid_request error.
func (r *Router) check(req any) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return core.InvalidRequest(fmt.Sprintf("%s is required", fe.Field()))
		}
		return core.InvalidRequest(fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag()))
	}
	return core.InvalidRequest(err.Error())
}
