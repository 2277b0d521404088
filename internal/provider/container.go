package provider

import (
	"github.com/vendora-next/internal/authz"
	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/config"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/queue"
	"github.com/vendora-next/internal/repository"
	"github.com/vendora-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	OrderRepo     repository.OrderRepository
	StatusRepo    repository.OrderStatusRepository
	CartRepo      repository.CartRepository
	WishlistRepo  repository.WishlistRepository
	RecentRepo    repository.RecentlyViewedRepository
	VariationRepo repository.ProductVariationRepository
	DeliveryRepo  repository.DeliveryDetailRepository
	ShippingRepo  repository.ShippingRepository

	// Guest store
	GuestStore service.GuestStore

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	UserAuthService       *service.UserAuthService
	CartService           *service.CartService
	WishlistService       *service.WishlistService
	RecentlyViewedService *service.RecentlyViewedService
	GuestMergeService     *service.GuestMergeService
	ShippingService       *service.ShippingService
	OrderWorkflowService  *service.OrderWorkflowService
	OrderQueryService     *service.OrderQueryService
	DeliveryDetailService *service.DeliveryDetailService
	NotificationService   *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.StatusRepo = repository.NewOrderStatusRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.RecentRepo = repository.NewRecentlyViewedRepository(db)
	c.VariationRepo = repository.NewProductVariationRepository(db)
	c.DeliveryRepo = repository.NewDeliveryDetailRepository(db)
	c.ShippingRepo = repository.NewShippingRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.GuestStore = cache.NewRedisGuestStore(c.Config.Guest.TTLDays)

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.NotificationService = service.NewNotificationService(
		c.UserRepo,
		c.GuestStore,
		c.QueueClient,
		service.NewFCMPushSender(c.Config.Push),
	)
	c.CartService = service.NewCartService(c.CartRepo, c.VariationRepo, c.GuestStore)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.VariationRepo, c.GuestStore)
	c.RecentlyViewedService = service.NewRecentlyViewedService(c.RecentRepo, c.GuestStore, c.Config.Guest.RecentlyViewedCap)
	c.GuestMergeService = service.NewGuestMergeService(
		c.GuestStore,
		c.CartRepo,
		c.WishlistRepo,
		c.RecentRepo,
		c.UserRepo,
		c.QueueClient,
		c.Config.Guest.RecentlyViewedCap,
		c.Config.Guest.MergeFlagTTLMinutes,
	)
	c.ShippingService = service.NewShippingService(c.ShippingRepo)
	c.OrderWorkflowService = service.NewOrderWorkflowService(
		c.OrderRepo,
		c.StatusRepo,
		c.CartRepo,
		c.VariationRepo,
		c.DeliveryRepo,
		c.ShippingService,
		c.NotificationService,
	)
	c.OrderQueryService = service.NewOrderQueryService(c.OrderRepo, c.StatusRepo, c.Config.Guest.ActivityFeedLimit)
	c.DeliveryDetailService = service.NewDeliveryDetailService(c.DeliveryRepo)
}
