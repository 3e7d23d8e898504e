package rest

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// optionalUint parses a query or path value, treating empty and zero as absent.
func optionalUint(raw string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	if v == 0 {
		return nil, nil
	}
	return &v, nil
}

func productIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("product_id"), 10, 64)
}
