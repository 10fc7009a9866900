package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
)

const maxBodyBytes = 1 << 20

var (
	ErrInvalidInput = apperror.New(apperror.Validation, "Dados invalidos")
	ErrInvalidJSON  = apperror.New(apperror.BadRequest, "JSON invalido")

	telefoneRe = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	validate   = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("telefone", func(fl validator.FieldLevel) bool {
		return telefoneRe.MatchString(fl.Field().String())
	})
	return v
}

// Normalizer is implemented by request types that fold aliases or trim input
// before validation.
type Normalizer interface {
	Normalize()
}

// DecodeAndValidate reads a JSON body into dst and runs its `validate` tags.
// An empty body is treated as `{}`.
func DecodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return ErrInvalidJSON.Wrap(err)
		case errors.As(err, &typeErr):
			return ErrInvalidInput.WithDetails([]apperror.FieldError{
				{Field: typeErr.Field, Message: "Tipo invalido"},
			}).Wrap(err)
		default:
			return ErrInvalidInput.WithDetails([]apperror.FieldError{
				{Field: "", Message: err.Error()},
			}).Wrap(err)
		}
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	return Validate(dst)
}

// Validate runs the struct's `validate` tags and converts failures into a
// Validation error with per-field details.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.InternalErr(err)
	}
	details := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperror.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return ErrInvalidInput.WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	if strings.Contains(tag, "|") {
		// "eq=|telefone" style rules accept an empty string to clear a field
		switch {
		case strings.Contains(tag, "telefone"):
			tag = "telefone"
		case strings.Contains(tag, "datetime"):
			tag = "datetime"
		case strings.Contains(tag, "oneof"):
			tag = "oneof"
		}
	}
	switch tag {
	case "required":
		return "Campo obrigatorio"
	case "email":
		return "Email invalido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Deve ter pelo menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Deve ser maior ou igual a %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Deve ter no maximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Deve ser menor ou igual a %s", fe.Param())
	case "gt":
		return "Valor deve ser positivo"
	case "oneof":
		return "Valor invalido. Use um de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "telefone":
		return "Telefone invalido. Use o formato (XX) XXXXX-XXXX"
	case "datetime":
		return "Data invalida. Use o formato ISO 8601"
	default:
		return "Valor invalido"
	}
}

// ParseID reads a positive integer URL parameter.
func ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidInput.WithDetails([]apperror.FieldError{
			{Field: name, Message: "ID deve ser um número positivo"},
		})
	}
	return id, nil
}
