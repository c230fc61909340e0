package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	apperrors "moim-app-go/pkg/errors"

	"github.com/go-playground/validator/v10"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeAppError maps err to its HTTP status. Client errors keep their own
// message and are logged as business errors; anything else is logged as
// internal and answered with the generic public message.
func (h *Handlers) writeAppError(w http.ResponseWriter, op string, err error, fields ...any) {
	typed := apperrors.Classify(err)
	meta := apperrors.MetadataFor(typed.Code())

	if meta.HTTPStatus >= http.StatusInternalServerError {
		h.log.InternalError(op+": failed", err, fields...)
		writeError(w, meta.HTTPStatus, string(typed.Code()), meta.PublicMessage)
		return
	}

	h.log.BusinessError(op+": rejected", err, fields...)
	writeError(w, meta.HTTPStatus, string(typed.Code()), typed.Message())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "invalid json body")
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperrors.Wrap(apperrors.CodeValidation, err, "validation failed")
	}
	fieldErr := errs[0]
	return apperrors.New(apperrors.CodeValidation, fieldErr.Field()+" "+validationMessage(fieldErr))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be %s characters", fe.Param())
	case "uuid":
		return "must be a valid uuid"
	}
	return "is invalid"
}
