package server

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Devam759/StitchUp-Firebase/internal/eventbus"
	"github.com/Devam759/StitchUp-Firebase/internal/handler"
	appmw "github.com/Devam759/StitchUp-Firebase/internal/middleware"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/notify"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
	"github.com/Devam759/StitchUp-Firebase/internal/service"
	"github.com/Devam759/StitchUp-Firebase/internal/storage"
	"github.com/Devam759/StitchUp-Firebase/internal/ws"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e         *echo.Echo
	userRepo  repository.UserRepository
	enqRepo   repository.EnquiryRepository
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	sha       string
	build     string
}

func New(db *gorm.DB, sha, buildTime string) *Server {
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
			host := u.Hostname()
			if strings.HasSuffix(host, "vercel.app") || strings.HasSuffix(host, "web.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	bus := eventbus.New()

	userRepo := repository.NewUserRepository(db)
	enqRepo := repository.NewEnquiryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)

	userSvc := service.NewUserService(userRepo)
	tailorSvc := service.NewTailorService(userRepo)
	enqSvc := service.NewEnquiryService(enqRepo, userRepo, bus)
	orderSvc := service.NewOrderService(orderRepo, enqRepo, bus)
	cartSvc := service.NewCartService(cartRepo, userRepo, bus)

	notify.NewNotifier(userRepo, notify.NewFast2SMSClient(os.Getenv("FAST2SMS_API_KEY"))).Attach(bus)

	var uploader *storage.Uploader
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		up, err := storage.NewUploader(context.Background(), bucket, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if err != nil {
			e.Logger.Warnf("media storage disabled: %v", err)
		} else {
			uploader = up
		}
	}

	hub := ws.NewHub(tailorSvc.SetPresence)
	attachHubFanout(bus, hub)

	userHandler := handler.NewUserHandler(userSvc)
	tailorHandler := handler.NewTailorHandler(tailorSvc, userSvc, uploader)
	enqHandler := handler.NewEnquiryHandler(enqSvc, userSvc, uploader)
	orderHandler := handler.NewOrderHandler(orderSvc, userSvc)
	cartHandler := handler.NewCartHandler(cartSvc, userSvc)
	wsHandler := handler.NewWSHandler(hub, userSvc)

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		e.Logger.Fatalf("failed to init firebase auth: %v", err)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	if authMw != nil {
		api.POST("/signup", userHandler.Signup, authMw.RequireAuth)
		api.GET("/session", userHandler.Session, authMw.RequireAuth)
		api.POST("/tailors/:id/messages", enqHandler.SendFromCustomer, authMw.RequireAuth)
		api.GET("/tailors/:id/thread", enqHandler.CustomerThread, authMw.RequireAuth)
		api.POST("/tailors/:id/voice", enqHandler.SendVoice, authMw.RequireAuth)
		api.POST("/tailors/:id/cart", cartHandler.Add, authMw.RequireAuth)
		api.GET("/cart", cartHandler.List, authMw.RequireAuth)
		api.DELETE("/cart/:id", cartHandler.Remove, authMw.RequireAuth)
		api.DELETE("/cart", cartHandler.Clear, authMw.RequireAuth)
		api.PUT("/me/rate-card", tailorHandler.UpdateRateCard, authMw.RequireAuth)
		api.PUT("/me/profile", tailorHandler.UpdateProfile, authMw.RequireAuth)
		api.PUT("/me/availability", tailorHandler.UpdateAvailability, authMw.RequireAuth)
		api.PUT("/me/presence", tailorHandler.UpdatePresence, authMw.RequireAuth)
		api.POST("/me/banner", tailorHandler.UploadBanner, authMw.RequireAuth)
		api.GET("/enquiries", enqHandler.List, authMw.RequireAuth)
		api.GET("/enquiries/:customerId/thread", enqHandler.TailorThread, authMw.RequireAuth)
		api.POST("/enquiries/:customerId/messages", enqHandler.SendFromTailor, authMw.RequireAuth)
		api.POST("/enquiries/:customerId/pricing", enqHandler.SendPricing, authMw.RequireAuth)
		api.POST("/enquiries/:customerId/share-number", enqHandler.ShareNumber, authMw.RequireAuth)
		api.POST("/enquiries/:customerId/reject", enqHandler.Reject, authMw.RequireAuth)
		api.POST("/enquiries/:customerId/accept", enqHandler.Accept, authMw.RequireAuth)
		api.POST("/enquiries/:customerId/voice", enqHandler.SendVoice, authMw.RequireAuth)
		api.GET("/orders", orderHandler.ListMine, authMw.RequireAuth)
		api.POST("/orders/:id/status", orderHandler.UpdateStatus, authMw.RequireAuth)
		api.GET("/dashboard", orderHandler.Dashboard, authMw.RequireAuth)
		e.GET("/ws", wsHandler.Connect, authMw.RequireAuth)
	} else {
		api.POST("/signup", userHandler.Signup)
		api.GET("/session", userHandler.Session)
		api.POST("/tailors/:id/messages", enqHandler.SendFromCustomer)
		api.GET("/tailors/:id/thread", enqHandler.CustomerThread)
		api.POST("/tailors/:id/voice", enqHandler.SendVoice)
		api.POST("/tailors/:id/cart", cartHandler.Add)
		api.GET("/cart", cartHandler.List)
		api.DELETE("/cart/:id", cartHandler.Remove)
		api.DELETE("/cart", cartHandler.Clear)
		api.PUT("/me/rate-card", tailorHandler.UpdateRateCard)
		api.PUT("/me/profile", tailorHandler.UpdateProfile)
		api.PUT("/me/availability", tailorHandler.UpdateAvailability)
		api.PUT("/me/presence", tailorHandler.UpdatePresence)
		api.POST("/me/banner", tailorHandler.UploadBanner)
		api.GET("/enquiries", enqHandler.List)
		api.GET("/enquiries/:customerId/thread", enqHandler.TailorThread)
		api.POST("/enquiries/:customerId/messages", enqHandler.SendFromTailor)
		api.POST("/enquiries/:customerId/pricing", enqHandler.SendPricing)
		api.POST("/enquiries/:customerId/share-number", enqHandler.ShareNumber)
		api.POST("/enquiries/:customerId/reject", enqHandler.Reject)
		api.POST("/enquiries/:customerId/accept", enqHandler.Accept)
		api.POST("/enquiries/:customerId/voice", enqHandler.SendVoice)
		api.GET("/orders", orderHandler.ListMine)
		api.POST("/orders/:id/status", orderHandler.UpdateStatus)
		api.GET("/dashboard", orderHandler.Dashboard)
		e.GET("/ws", wsHandler.Connect)
	}
	api.GET("/tailors", tailorHandler.List)
	api.GET("/tailors/:id", tailorHandler.Get)

	return &Server{e: e, userRepo: userRepo, enqRepo: enqRepo, orderRepo: orderRepo, cartRepo: cartRepo, sha: sha, build: buildTime}
}

// attachHubFanout bridges domain events onto the live sockets of the users
// they concern.
func attachHubFanout(bus *eventbus.Bus, hub *ws.Hub) {
	threadEvent := func(ev eventbus.Event) {
		me, ok := ev.Payload.(service.MessageEvent)
		if !ok || me.Enquiry == nil {
			return
		}
		env := ws.Envelope{Topic: ev.Topic, Data: me}
		hub.SendToUser(me.Enquiry.CustomerID, env)
		hub.SendToUser(me.Enquiry.TailorID, env)
	}
	bus.Subscribe(eventbus.TopicMessageCreated, threadEvent)
	bus.Subscribe(eventbus.TopicEnquiryUpdated, threadEvent)
	bus.Subscribe(eventbus.TopicEnquiryCreated, func(ev eventbus.Event) {
		enq, ok := ev.Payload.(*model.Enquiry)
		if !ok {
			return
		}
		hub.SendToUser(enq.TailorID, ws.Envelope{Topic: ev.Topic, Data: enq})
	})
	bus.Subscribe(eventbus.TopicOrderUpdated, func(ev eventbus.Event) {
		order, ok := ev.Payload.(*model.Order)
		if !ok {
			return
		}
		env := ws.Envelope{Topic: ev.Topic, Data: order}
		hub.SendToUser(order.CustomerID, env)
		hub.SendToUser(order.TailorID, env)
	})
	bus.Subscribe(eventbus.TopicCartUpdated, func(ev eventbus.Event) {
		userID, ok := ev.Payload.(string)
		if !ok {
			return
		}
		hub.SendToUser(userID, ws.Envelope{Topic: ev.Topic})
	})
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	if s.userRepo != nil {
		s.userRepo.SetDB(db)
	}
	if s.enqRepo != nil {
		s.enqRepo.SetDB(db)
	}
	if s.orderRepo != nil {
		s.orderRepo.SetDB(db)
	}
	if s.cartRepo != nil {
		s.cartRepo.SetDB(db)
	}
}
