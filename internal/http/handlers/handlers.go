package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/service"
)

type Handlers struct {
	auth     service.AuthService
	catalog  service.CatalogService
	bookings service.BookingService
}

func New(auth service.AuthService, catalog service.CatalogService, bookings service.BookingService) *Handlers {
	return &Handlers{
		auth:     auth,
		catalog:  catalog,
		bookings: bookings,
	}
}

// decodeJSON reads the body into dst. An absent body and a field of
// the wrong JSON type become named validation details instead of bare
// decode errors.
func decodeJSON(r *http.Request, dst interface{}) *domain.Error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ValidationFailed([]string{"body must be an object"})
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.ValidationFailed([]string{
				fmt.Sprintf("%s must be %s", typeErr.Field, friendlyType(typeErr.Type.Kind().String())),
			})
		}
		return domain.E(domain.CodeInvalidInput, "invalid JSON body")
	}
	return nil
}

func friendlyType(kind string) string {
	switch kind {
	case "string":
		return "a string"
	case "float64", "float32":
		return "a number"
	case "int", "int64", "int32":
		return "an integer"
	case "bool":
		return "a boolean"
	default:
		return "a " + kind
	}
}

func pathID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

type listMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
