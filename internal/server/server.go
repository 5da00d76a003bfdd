package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/minishare/backend/internal/auth"
	"github.com/minishare/backend/internal/config"
	"github.com/minishare/backend/internal/handler"
	appmw "github.com/minishare/backend/internal/middleware"
	"github.com/minishare/backend/internal/repository"
	"github.com/minishare/backend/internal/service"
	"github.com/minishare/backend/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	sha   string
	build string
}

func New(db *gorm.DB, cfg *config.Config, store storage.Service, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authMw := appmw.NewAuthMiddleware(tokens)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	postRepo := repository.NewPostRepository(db)
	requestRepo := repository.NewProductRequestRepository(db)
	cartRepo := repository.NewCartRepository(db)

	authSvc := service.NewAuthService(userRepo, tokens)
	userSvc := service.NewUserService(userRepo, productRepo, postRepo, requestRepo)
	catalogSvc := service.NewCatalogService(db, productRepo)
	requestSvc := service.NewRequestService(db, store)
	postSvc := service.NewPostService(db, postRepo, store)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(db)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc, catalogSvc, postSvc)
	productHandler := handler.NewProductHandler(catalogSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	postHandler := handler.NewPostHandler(postSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	adminHandler := handler.NewAdminHandler(userSvc, catalogSvc, postSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	if cfg.StorageBucket == "" {
		e.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	api := e.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)

	api.GET("/me", userHandler.Me, authMw.RequireAuth)
	api.PUT("/me/profile", userHandler.UpdateProfile, authMw.RequireAuth)
	api.GET("/me/favorites", userHandler.Favorites, authMw.RequireAuth)
	api.GET("/me/requests", requestHandler.ListMine, authMw.RequireAuth)
	api.GET("/me/products", requestHandler.ListMyProducts, authMw.RequireAuth)
	api.GET("/me/posts", postHandler.ListMine, authMw.RequireAuth)
	api.GET("/me/orders", orderHandler.ListMine, authMw.RequireAuth)

	api.POST("/requests", requestHandler.Submit, authMw.RequireAuth)
	api.POST("/products/:id/edit-request", requestHandler.SubmitEdit, authMw.RequireAuth)

	api.POST("/products/:id/comments", productHandler.AddComment, authMw.RequireAuth)
	api.DELETE("/products/comments/:id", productHandler.DeleteComment, authMw.RequireAuth)
	api.POST("/products/:id/favorite", productHandler.ToggleFavorite, authMw.RequireAuth)
	api.GET("/products/:id/favorite", productHandler.CheckFavorite, authMw.RequireAuth)

	api.POST("/posts", postHandler.Create, authMw.RequireAuth)
	api.DELETE("/posts/:id", postHandler.Delete, authMw.RequireAuth)
	api.POST("/posts/:id/like", postHandler.ToggleLike, authMw.RequireAuth)
	api.GET("/posts/:id/like", postHandler.CheckLike, authMw.RequireAuth)
	api.POST("/posts/:id/favorite", postHandler.ToggleFavorite, authMw.RequireAuth)
	api.GET("/posts/:id/favorite", postHandler.CheckFavorite, authMw.RequireAuth)
	api.POST("/posts/:id/comments", postHandler.AddComment, authMw.RequireAuth)
	api.DELETE("/posts/comments/:id", postHandler.DeleteComment, authMw.RequireAuth)

	api.GET("/cart", cartHandler.List, authMw.RequireAuth)
	api.POST("/cart/:productId", cartHandler.Add, authMw.RequireAuth)
	api.DELETE("/cart/:productId", cartHandler.Remove, authMw.RequireAuth)
	api.POST("/checkout", orderHandler.Checkout, authMw.RequireAuth)
	api.POST("/orders/:id/pay", orderHandler.MarkPaid, authMw.RequireAuth)
	api.DELETE("/orders/:id", orderHandler.Delete, authMw.RequireAuth)

	admin := api.Group("/admin", authMw.RequireAuth, authMw.RequireAdmin)
	admin.GET("/requests", requestHandler.List)
	admin.GET("/requests/:id", requestHandler.Get)
	admin.POST("/requests/:id/approve", requestHandler.Approve)
	admin.POST("/requests/:id/reject", requestHandler.Reject)
	admin.DELETE("/requests/:id", requestHandler.Delete)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.SetRole)
	admin.POST("/users/:id/lock", adminHandler.ToggleLock)
	admin.PUT("/users/:id/password", adminHandler.ChangePassword)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.DELETE("/products/:id", adminHandler.DeleteProduct)
	admin.DELETE("/posts/:id", adminHandler.DeletePost)
	admin.GET("/stats", adminHandler.Stats)

	return &Server{e: e, sha: sha, build: buildTime}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Echo exposes the underlying router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}
