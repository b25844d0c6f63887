package main

import (
	"net/http"
	"strconv"

	"github.com/smartsella/syntecxhub-shop-api/internal/middleware"
	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/services"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"github.com/labstack/echo/v4"
)

type placeOrderRequest struct {
	ShippingInfo  model.ShippingInfo `json:"shippingInfo"`
	PaymentMethod string             `json:"paymentMethod"`
}

func registerOrderRoutes(g *echo.Group, os *services.OrderService, issuer *token.Issuer) {
	orders := g.Group("/orders")
	orders.Use(middleware.JWT(issuer))

	orders.POST("", func(c echo.Context) error {
		var req placeOrderRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		order, err := os.Place(c.Request().Context(), middleware.GetClaims(c).UserID,
			req.ShippingInfo, req.PaymentMethod)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": order})
	})

	orders.GET("", func(c echo.Context) error {
		list, err := os.ListMine(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "data": list})
	})

	orders.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid order id")
		}
		claims := middleware.GetClaims(c)
		order, err := os.Get(c.Request().Context(), id, claims.UserID, claims.Role)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": order})
	})

	orders.PUT("/:id/cancel", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid order id")
		}
		order, err := os.Cancel(c.Request().Context(), id, middleware.GetClaims(c).UserID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Order cancelled", "data": order})
	})
}
