package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/middleware"
	"github.com/smartsella/syntecxhub-shop-api/internal/services"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email   string `json:"email"`
	OTP     string `json:"otp"`
	Purpose string `json:"purpose"`
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func registerHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req registerRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}

		u, err := authSvc.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Phone)
		if err != nil {
			// the account may exist even though the email failed; re-sending
			// an OTP is always possible
			if u != nil && errors.Is(err, services.ErrEmailDelivery) {
				return c.JSON(http.StatusCreated, echo.Map{
					"success": true,
					"message": "Registration successful, but the verification email could not be sent. Please request a new OTP.",
					"warning": "email delivery failed",
					"data":    echo.Map{"email": u.Email, "name": u.Name},
				})
			}
			return failErr(c, err)
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"success": true,
			"message": "Registration successful. Please check your email for verification OTP.",
			"data":    echo.Map{"email": u.Email, "name": u.Name},
		})
	}
}

func verifyOTPHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req verifyOTPRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}

		res, err := authSvc.VerifyOTP(c.Request().Context(), req.Email, req.OTP, req.Purpose)
		if err != nil {
			return failErr(c, err)
		}
		if !res.Valid {
			return fail(c, http.StatusBadRequest, res.Message)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": res.Message})
	}
}

func resendOTPHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req verifyOTPRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		if err := authSvc.ResendOTP(c.Request().Context(), req.Email, req.Purpose); err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "A new OTP has been sent to your email.",
		})
	}
}

func sessionCookie(tok string, ttl time.Duration, production bool) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteStrictMode,
	}
}

func loginHandler(authSvc *services.AuthService, issuer *token.Issuer, production bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		if req.Email == "" || req.Password == "" {
			return fail(c, http.StatusBadRequest, "Please provide email and password")
		}

		tok, user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return failErr(c, err)
		}

		c.SetCookie(sessionCookie(tok, issuer.TTL(), production))
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"token":   tok,
			"user":    user.Public(),
		})
	}
}

func logoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		// stateless tokens: logout is a client-side cookie clear only
		c.SetCookie(&http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Now().Add(-time.Hour),
			HttpOnly: true,
		})
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
	}
}

func meHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		u, err := authSvc.Me(c.Request().Context(), claims.UserID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": u.Public()})
	}
}

func forgotPasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		if err := authSvc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return fail(c, http.StatusNotFound, "No user found with this email")
			}
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Password reset OTP sent to email",
		})
	}
}

func resetPasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req resetPasswordRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}

		res, err := authSvc.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.Password)
		if err != nil {
			return failErr(c, err)
		}
		if !res.Valid {
			return fail(c, http.StatusBadRequest, res.Message)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": res.Message})
	}
}

func updatePasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		var req updatePasswordRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		if err := authSvc.UpdatePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return fail(c, http.StatusUnauthorized, "Current password is incorrect")
			}
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated successfully"})
	}
}

func updateDetailsHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		var req updateDetailsRequest
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request")
		}
		u, err := authSvc.UpdateDetails(c.Request().Context(), claims.UserID, req.Name, req.Email, req.Phone)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": u.Public()})
	}
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService, issuer *token.Issuer, production bool) {
	auth := g.Group("/auth")

	// public
	auth.POST("/register", registerHandler(authSvc))
	auth.POST("/verify-otp", verifyOTPHandler(authSvc))
	auth.POST("/resend-otp", resendOTPHandler(authSvc))
	auth.POST("/login", loginHandler(authSvc, issuer, production))
	auth.GET("/logout", logoutHandler())
	auth.POST("/forgotpassword", forgotPasswordHandler(authSvc))
	auth.PUT("/resetpassword", resetPasswordHandler(authSvc))

	// authenticated
	protected := auth.Group("")
	protected.Use(middleware.JWT(issuer))
	protected.GET("/me", meHandler(authSvc))
	protected.PUT("/updatedetails", updateDetailsHandler(authSvc))
	protected.PUT("/updatepassword", updatePasswordHandler(authSvc))
}
