package main

import (
	"net/http"
	"strconv"

	"github.com/smartsella/syntecxhub-shop-api/internal/middleware"
	"github.com/smartsella/syntecxhub-shop-api/internal/services"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"github.com/labstack/echo/v4"
)

type addCartItemRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

func registerCartRoutes(g *echo.Group, cs *services.CartService, issuer *token.Issuer) {
	cart := g.Group("/cart")
	cart.Use(middleware.JWT(issuer))

	cart.GET("", func(c echo.Context) error {
		view, err := cs.Get(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": view})
	})

	cart.POST("/items", func(c echo.Context) error {
		var req addCartItemRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		view, err := cs.Add(c.Request().Context(), middleware.GetClaims(c).UserID,
			req.ProductID, req.Quantity, req.Color, req.Size)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Item added to cart", "data": view})
	})

	cart.PUT("/items/:itemId", func(c echo.Context) error {
		itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid item id")
		}
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		view, err := cs.UpdateItem(c.Request().Context(), middleware.GetClaims(c).UserID, itemID, req.Quantity)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Cart updated", "data": view})
	})

	cart.DELETE("/items/:itemId", func(c echo.Context) error {
		itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid item id")
		}
		view, err := cs.RemoveItem(c.Request().Context(), middleware.GetClaims(c).UserID, itemID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Item removed from cart", "data": view})
	})

	cart.DELETE("", func(c echo.Context) error {
		view, err := cs.Clear(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Cart cleared successfully", "data": view})
	})

	cart.POST("/coupon", func(c echo.Context) error {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		view, err := cs.ApplyCoupon(c.Request().Context(), middleware.GetClaims(c).UserID, req.Code)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Coupon applied successfully", "data": view})
	})

	cart.DELETE("/coupon", func(c echo.Context) error {
		view, err := cs.RemoveCoupon(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Coupon removed successfully", "data": view})
	})
}
