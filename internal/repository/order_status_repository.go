package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// OrderStatusRepository 订单状态历史数据访问接口（只追加）
type OrderStatusRepository interface {
	Append(status *models.OrderStatus) error
	LatestByOrderID(orderID uint) (*models.OrderStatus, error)
	ListByOrderID(orderID uint) ([]models.OrderStatus, error)
	ListRecentByStore(storeID uint, limit int) ([]OrderActivityRow, error)
	CategoryBreakdownByStore(storeID uint, year int) ([]CategoryBreakdownRow, error)
	WithTx(tx *gorm.DB) *GormOrderStatusRepository
}

// OrderActivityRow 店铺订单动态行
type OrderActivityRow struct {
	OrderID    uint      `json:"order_id"`
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"`
	ActorID    uint      `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// CategoryBreakdownRow 按月份与分类聚合的销售额行
type CategoryBreakdownRow struct {
	Month        int          `json:"month"`
	CategoryName string       `json:"category_name"`
	TotalAmount  models.Money `json:"total_amount"`
	OrderCount   int64        `json:"order_count"`
}

// GormOrderStatusRepository GORM 实现
type GormOrderStatusRepository struct {
	db *gorm.DB
}

// NewOrderStatusRepository 创建订单状态历史仓库
func NewOrderStatusRepository(db *gorm.DB) *GormOrderStatusRepository {
	return &GormOrderStatusRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderStatusRepository) WithTx(tx *gorm.DB) *GormOrderStatusRepository {
	if tx == nil {
		return r
	}
	return &GormOrderStatusRepository{db: tx}
}

// Append 追加状态行（历史行不允许更新或删除）
func (r *GormOrderStatusRepository) Append(status *models.OrderStatus) error {
	return r.db.Create(status).Error
}

// LatestByOrderID 获取订单当前状态（按 created_at, id 最新一条）
func (r *GormOrderStatusRepository) LatestByOrderID(orderID uint) (*models.OrderStatus, error) {
	var status models.OrderStatus
	err := r.db.Where("order_id = ?", orderID).
		Order("created_at desc, id desc").
		First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ListByOrderID 获取订单状态历史（新到旧）
func (r *GormOrderStatusRepository) ListByOrderID(orderID uint) ([]models.OrderStatus, error) {
	var statuses []models.OrderStatus
	if err := r.db.Where("order_id = ?", orderID).
		Order("created_at desc, id desc").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// ListRecentByStore 获取店铺最近的订单状态动态
func (r *GormOrderStatusRepository) ListRecentByStore(storeID uint, limit int) ([]OrderActivityRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []OrderActivityRow
	err := r.db.Model(&models.OrderStatus{}).
		Select("order_statuses.order_id", "orders.tracking_id", "order_statuses.status",
			"order_statuses.actor_id", "order_statuses.created_at").
		Joins("JOIN orders ON orders.id = order_statuses.order_id").
		Where("orders.store_id = ?", storeID).
		Order("order_statuses.created_at desc, order_statuses.id desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoryBreakdownByStore 按年份统计店铺订单的月度分类销售额
func (r *GormOrderStatusRepository) CategoryBreakdownByStore(storeID uint, year int) ([]CategoryBreakdownRow, error) {
	mExpr := monthExpr(r.db, "orders.created_at")
	nameExpr := localizedJSONCoalesceExpr(r.db, "categories.name_json")
	startAt := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	endAt := startAt.AddDate(1, 0, 0)

	var rows []CategoryBreakdownRow
	err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s AS month, %s AS category_name, SUM(orders.total_amount) AS total_amount, COUNT(orders.id) AS order_count", mExpr, nameExpr)).
		Joins("JOIN products ON products.id = orders.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("orders.store_id = ? AND orders.created_at >= ? AND orders.created_at < ?", storeID, startAt, endAt).
		Group("month, category_name").
		Order("month asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
