package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"subbazar.com/app/internal/config"
	"subbazar.com/app/internal/http/handlers"
	adminhandlers "subbazar.com/app/internal/http/handlers/admin"
	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/modules/catalog"
	"subbazar.com/app/internal/modules/identity"
	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/modules/payments"
	"subbazar.com/app/internal/shared/dbconn"
	"subbazar.com/app/internal/storage"
)

// NewRouter wires every module. The trusted handle goes to exactly two
// constructors; nothing else sees it.
func NewRouter(l *slog.Logger, cfg config.Config, scoped dbconn.Scoped, trusted dbconn.Trusted, files storage.Storage) *gin.Engine {
	r := gin.New()

	sessCfg := middleware.SessionCfg{
		DB:         scoped.DB,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.SessionSecure,
		TTL:        cfg.SessionTTL,
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(l))
	r.Use(middleware.Recovery(l))
	r.Use(middleware.ErrorHandler(l))
	r.Use(middleware.SessionMiddleware(sessCfg))

	catalogRepo := catalog.NewRepo(scoped.DB)
	ordersRepo := orders.NewRepo(scoped.DB)
	proofsRepo := payments.NewRepo(scoped.DB)
	usersRepo := identity.NewRepo(scoped.DB)

	orderSvc := orders.NewService(catalogRepo, orders.NewTrustedStore(trusted))
	guests := identity.NewProvisioner(identity.NewTrustedUserStore(trusted))
	proofSvc := payments.NewProofService(ordersRepo, proofsRepo, files)
	verifySvc := payments.NewVerifyService(proofsRepo)

	authH := handlers.NewAuthHandler(usersRepo, ordersRepo, sessCfg)
	productH := handlers.NewProductHandler(catalogRepo)
	checkoutH := handlers.NewCheckoutHandler(orderSvc, guests)
	orderH := handlers.NewOrderHandler(ordersRepo)
	proofH := handlers.NewPaymentProofHandler(proofSvc)

	writeLimit := middleware.RateLimit(rate.Limit(0.5), 5)

	api := r.Group("/api")
	{
		api.POST("/auth/login", authH.Login)
		api.POST("/auth/logout", authH.Logout)
		api.GET("/auth/me", authH.Me)

		api.GET("/products", productH.List)
		api.GET("/products/:id", productH.Get)
		api.GET("/categories", productH.Categories)

		api.POST("/checkout", writeLimit, checkoutH.Post)
		api.GET("/orders/:id", orderH.Get)
		api.POST("/orders/:id/proof", writeLimit, proofH.Post)

		api.GET("/my/orders", middleware.RequireAuth(), orderH.ListMine)
	}

	adminOrdersH := adminhandlers.NewOrdersHandler(ordersRepo, proofsRepo)
	adminPaymentsH := adminhandlers.NewPaymentsHandler(proofsRepo, verifySvc)
	adminProductsH := adminhandlers.NewProductsHandler(catalogRepo, files)

	adm := r.Group("/api/admin", middleware.RequireAdmin())
	{
		adm.GET("/orders", adminOrdersH.List)
		adm.GET("/orders/:id", adminOrdersH.Detail)

		adm.GET("/payments", adminPaymentsH.List)
		adm.POST("/payments/:id/decide", adminPaymentsH.Decide)

		adm.GET("/products", adminProductsH.List)
		adm.POST("/products", adminProductsH.Create)
		adm.PUT("/products/:id", adminProductsH.Update)
		adm.DELETE("/products/:id", adminProductsH.Delete)
		adm.POST("/products/:id/image", adminProductsH.UploadImage)
	}

	return r
}
