package main

import (
	"net/http"
	"strconv"

	"github.com/smartsella/syntecxhub-shop-api/internal/middleware"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
	"github.com/smartsella/syntecxhub-shop-api/internal/services"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"github.com/labstack/echo/v4"
)

type updateOrderStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

func registerAdminRoutes(g *echo.Group, users *repository.UserRepository, os *services.OrderService, issuer *token.Issuer) {
	admin := g.Group("/admin")
	admin.Use(middleware.JWT(issuer), middleware.AdminOnly)

	admin.GET("/users", func(c echo.Context) error {
		list, err := users.List(c.Request().Context())
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "data": list})
	})

	admin.GET("/users/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid user id")
		}
		u, err := users.GetByID(c.Request().Context(), id)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": u})
	})

	admin.PUT("/users/:id/ban", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid user id")
		}
		if err := users.Ban(c.Request().Context(), id); err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User banned"})
	})

	admin.PUT("/users/:id/unban", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid user id")
		}
		if err := users.Unban(c.Request().Context(), id); err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User unbanned"})
	})

	admin.GET("/orders", func(c echo.Context) error {
		page, _ := strconv.Atoi(c.QueryParam("page"))
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		list, pagination, err := os.ListAll(c.Request().Context(), page, limit)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":    true,
			"count":      len(list),
			"pagination": pagination,
			"data":       list,
		})
	})

	admin.PUT("/orders/:id/status", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid order id")
		}
		var req updateOrderStatusRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		order, err := os.UpdateStatus(c.Request().Context(), id, req.Status, req.TrackingNumber, req.Carrier)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": order})
	})

	admin.GET("/dashboard", func(c echo.Context) error {
		stats, err := os.Stats(c.Request().Context())
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
	})
}
