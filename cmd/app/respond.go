package main

import (
	"errors"
	"net/http"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
	"github.com/smartsella/syntecxhub-shop-api/internal/services"

	"github.com/labstack/echo/v4"
)

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// failErr maps service errors onto the API's {success,message} envelope
// without leaking storage detail.
func failErr(c echo.Context, err error) error {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": vErr.Error(),
			"errors":  vErr.Fields,
		})
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotVerified),
		errors.Is(err, services.ErrAccountLocked):
		return fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCartItemNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateSKU),
		errors.Is(err, repository.ErrDuplicateCategory),
		errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrInvalidCoupon),
		errors.Is(err, services.ErrAlreadyVerified),
		errors.Is(err, services.ErrInvalidToken):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailDelivery):
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	c.Logger().Error(err)
	return fail(c, http.StatusInternalServerError, "internal server error")
}
