package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
)

var validate = validator.New()

// bindRequest llena out desde la query string y, si llega JSON, desde el cuerpo (el cuerpo gana).
// Después valida las etiquetas `validate`.
func bindRequest(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return bindErr(err)
	}
	if isJSON(c) && len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return fmt.Errorf("%w: cuerpo inválido: %v", domain.ErrValidation, err)
		}
	}
	return validateStruct(out)
}

func bindErr(err error) error {
	return fmt.Errorf("%w: parámetros inválidos: %v", domain.ErrValidation, err)
}

// bindBody solo lee el cuerpo JSON.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido: %v", domain.ErrValidation, err)
	}
	return validateStruct(out)
}

func validateStruct(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, ", "))
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEApplicationJSON)
}

// parseDate acepta RFC3339 o AAAA-MM-DD; vacío devuelve nil.
func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q no es una fecha válida", domain.ErrValidation, field, s)
}

// actor usuario que realiza la operación: el del token si existe, si no el enviado en la petición.
func actor(c *fiber.Ctx, fromRequest string) string {
	if id := GetUserID(c); id != "" {
		return id
	}
	return fromRequest
}
