package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/recyclemart/ewaste-market/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	BuyHandler      *BuyHTTP
	SellHandler     *SellHTTP
	CouponHandler   *CouponHTTP
	EstimateHandler *EstimateHTTP
	Gate            *authmw.Gate
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// The gate sees every request; paths off its prefix table pass
	// straight through.
	e.Use(d.Gate.Middleware)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)

	e.GET("/buy", d.BuyHandler.List)
	e.GET("/buy/search", d.BuyHandler.Search)
	e.PUT("/buy/:id", d.BuyHandler.Transition, d.Gate.RequireAuth)

	e.GET("/estimate", d.EstimateHandler.Get)

	sell := e.Group("/sell")
	sell.GET("", d.SellHandler.List)
	sell.POST("", d.SellHandler.Create)
	sell.POST("/images", d.SellHandler.PresignImage)
	sell.GET("/:id", d.SellHandler.Get)
	sell.PUT("/:id", d.SellHandler.Update)
	sell.DELETE("/:id", d.SellHandler.Delete)

	coupon := e.Group("/coupon")
	coupon.GET("", d.CouponHandler.List)
	coupon.POST("", d.CouponHandler.Create)
	coupon.PUT("", d.CouponHandler.Update)
	coupon.DELETE("", d.CouponHandler.Delete)
	coupon.POST("/redeem", d.CouponHandler.Redeem)
}
