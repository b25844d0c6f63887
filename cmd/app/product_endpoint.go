package main

import (
	"net/http"
	"strconv"

	"github.com/smartsella/syntecxhub-shop-api/internal/middleware"
	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
	"github.com/smartsella/syntecxhub-shop-api/internal/services"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"github.com/labstack/echo/v4"
)

type productRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discount_price"`
	CategoryID    int64    `json:"categoryid"`
	Brand         string   `json:"brand"`
	Stock         int      `json:"stock"`
	SKU           string   `json:"sku"`
	ImageURLs     []string `json:"images"`
	Tags          []string `json:"tags"`
	IsFeatured    bool     `json:"is_featured"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

func parseProductFilter(c echo.Context) repository.ProductFilter {
	f := repository.ProductFilter{
		Search:       c.QueryParam("search"),
		CategorySlug: c.QueryParam("category"),
		Brand:        c.QueryParam("brand"),
		Sort:         c.QueryParam("sort"),
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if v, err := strconv.ParseFloat(c.QueryParam("min_price"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("max_price"), 64); err == nil {
		f.MaxPrice = &v
	}
	return f
}

func listProductsHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, pagination, err := ps.List(c.Request().Context(), parseProductFilter(c))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":    true,
			"count":      len(list),
			"pagination": pagination,
			"data":       list,
		})
	}
}

func getProductHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		// numeric ids and slugs share the path segment
		var (
			p   *model.Product
			err error
		)
		if id, convErr := strconv.ParseInt(c.Param("id"), 10, 64); convErr == nil {
			p, err = ps.Get(ctx, id)
		} else {
			p, err = ps.GetBySlug(ctx, c.Param("id"))
		}
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": p})
	}
}

func featuredProductsHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := ps.Featured(c.Request().Context())
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "data": list})
	}
}

func newArrivalsHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		list, err := ps.NewArrivals(c.Request().Context(), limit)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "data": list})
	}
}

func relatedProductsHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid product id")
		}
		list, err := ps.Related(c.Request().Context(), id)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "data": list})
	}
}

func (req *productRequest) toModel() *model.Product {
	p := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		CategoryID:    req.CategoryID,
		Brand:         req.Brand,
		Stock:         req.Stock,
		SKU:           req.SKU,
		ImageURLs:     req.ImageURLs,
		Tags:          req.Tags,
		IsFeatured:    req.IsFeatured,
		IsActive:      true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}

func createProductHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req productRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		p := req.toModel()
		p.CreatedBy = middleware.GetClaims(c).UserID

		created, err := ps.Create(c.Request().Context(), p)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": created})
	}
}

func updateProductHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid product id")
		}
		var req productRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		p := req.toModel()
		p.ProductID = id

		updated, err := ps.Update(c.Request().Context(), p)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
	}
}

func deleteProductHandler(ps *services.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid product id")
		}
		if err := ps.Delete(c.Request().Context(), id); err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Product deleted"})
	}
}

func registerProductRoutes(g *echo.Group, ps *services.ProductService, issuer *token.Issuer) {
	products := g.Group("/products")

	// public
	products.GET("", listProductsHandler(ps))
	products.GET("/featured", featuredProductsHandler(ps))
	products.GET("/new-arrivals", newArrivalsHandler(ps))
	products.GET("/:id", getProductHandler(ps))
	products.GET("/:id/related", relatedProductsHandler(ps))

	// admin
	admin := products.Group("")
	admin.Use(middleware.JWT(issuer), middleware.AdminOnly)
	admin.POST("", createProductHandler(ps))
	admin.PUT("/:id", updateProductHandler(ps))
	admin.DELETE("/:id", deleteProductHandler(ps))
}
