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

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image"`
	ParentID    *int64 `json:"parentid"`
	Featured    bool   `json:"featured"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func registerCategoryRoutes(g *echo.Group, cs *services.CategoryService, issuer *token.Issuer) {
	categories := g.Group("/categories")

	categories.GET("", func(c echo.Context) error {
		list, err := cs.List(c.Request().Context())
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "data": list})
	})

	categories.GET("/:slug", func(c echo.Context) error {
		cat, err := cs.GetBySlug(c.Request().Context(), c.Param("slug"))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": cat})
	})

	admin := categories.Group("")
	admin.Use(middleware.JWT(issuer), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		var req categoryRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		cat := &model.Category{
			Name:        req.Name,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			ParentID:    req.ParentID,
			Featured:    req.Featured,
			IsActive:    true,
		}
		created, err := cs.Create(c.Request().Context(), cat)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": created})
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid category id")
		}
		var req categoryRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		cat := &model.Category{
			CategoryID:  id,
			Name:        req.Name,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			ParentID:    req.ParentID,
			Featured:    req.Featured,
			IsActive:    true,
		}
		if req.IsActive != nil {
			cat.IsActive = *req.IsActive
		}
		updated, err := cs.Update(c.Request().Context(), cat)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid category id")
		}
		if err := cs.Delete(c.Request().Context(), id); err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Category deleted"})
	})
}
