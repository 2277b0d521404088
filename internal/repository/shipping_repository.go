package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// ShippingRepository 配送方式/区域/费率数据访问接口
type ShippingRepository interface {
	ListMethods(onlyActive bool) ([]models.ShippingMethod, error)
	GetMethodByID(id uint) (*models.ShippingMethod, error)
	CreateMethod(method *models.ShippingMethod) error
	UpdateMethod(method *models.ShippingMethod) error
	DeleteMethod(id uint) error

	ListZonesByCountry(country string) ([]models.ShippingZone, error)
	ListZones() ([]models.ShippingZone, error)
	GetZoneByID(id uint) (*models.ShippingZone, error)
	CreateZone(zone *models.ShippingZone) error
	UpdateZone(zone *models.ShippingZone) error
	DeleteZone(id uint) error

	ListRates() ([]models.ShippingRate, error)
	GetRate(methodID, zoneID uint) (*models.ShippingRate, error)
	CreateRate(rate *models.ShippingRate) error
	UpdateRate(rate *models.ShippingRate) error
	DeleteRate(id uint) error

	WithTx(tx *gorm.DB) *GormShippingRepository
}

// GormShippingRepository GORM 实现
type GormShippingRepository struct {
	db *gorm.DB
}

// NewShippingRepository 创建配送仓库
func NewShippingRepository(db *gorm.DB) *GormShippingRepository {
	return &GormShippingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingRepository) WithTx(tx *gorm.DB) *GormShippingRepository {
	if tx == nil {
		return r
	}
	return &GormShippingRepository{db: tx}
}

// ListMethods 获取配送方式列表
func (r *GormShippingRepository) ListMethods(onlyActive bool) ([]models.ShippingMethod, error) {
	var methods []models.ShippingMethod
	query := r.db.Order("id asc")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// GetMethodByID 根据 ID 获取配送方式
func (r *GormShippingRepository) GetMethodByID(id uint) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	if err := r.db.First(&method, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// CreateMethod 创建配送方式
func (r *GormShippingRepository) CreateMethod(method *models.ShippingMethod) error {
	return r.db.Create(method).Error
}

// UpdateMethod 更新配送方式
func (r *GormShippingRepository) UpdateMethod(method *models.ShippingMethod) error {
	return r.db.Save(method).Error
}

// DeleteMethod 删除配送方式
func (r *GormShippingRepository) DeleteMethod(id uint) error {
	return r.db.Delete(&models.ShippingMethod{}, id).Error
}

// ListZonesByCountry 获取某国家的全部区域
// 返回顺序固定为：city 非空优先，其次 state 非空，最后按 id 升序；
// 配送区域匹配的「最具体优先、同级按 id 取小」即依赖该顺序。
func (r *GormShippingRepository) ListZonesByCountry(country string) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	err := r.db.Where("country = ?", country).
		Order("city IS NULL asc, state IS NULL asc, id asc").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// ListZones 获取全部配送区域
func (r *GormShippingRepository) ListZones() ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	if err := r.db.Order("country asc, id asc").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// GetZoneByID 根据 ID 获取配送区域
func (r *GormShippingRepository) GetZoneByID(id uint) (*models.ShippingZone, error) {
	var zone models.ShippingZone
	if err := r.db.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// CreateZone 创建配送区域
func (r *GormShippingRepository) CreateZone(zone *models.ShippingZone) error {
	return r.db.Create(zone).Error
}

// UpdateZone 更新配送区域
func (r *GormShippingRepository) UpdateZone(zone *models.ShippingZone) error {
	return r.db.Save(zone).Error
}

// DeleteZone 删除配送区域
func (r *GormShippingRepository) DeleteZone(id uint) error {
	return r.db.Delete(&models.ShippingZone{}, id).Error
}

// ListRates 获取配送费率列表
func (r *GormShippingRepository) ListRates() ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	if err := r.db.Preload("Method").Preload("Zone").Order("id asc").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// GetRate 获取 (配送方式, 区域) 对应的费率
func (r *GormShippingRepository) GetRate(methodID, zoneID uint) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	err := r.db.Where("shipping_method_id = ? AND zone_id = ?", methodID, zoneID).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// CreateRate 创建配送费率
func (r *GormShippingRepository) CreateRate(rate *models.ShippingRate) error {
	return r.db.Create(rate).Error
}

// UpdateRate 更新配送费率
func (r *GormShippingRepository) UpdateRate(rate *models.ShippingRate) error {
	return r.db.Save(rate).Error
}

// DeleteRate 删除配送费率
func (r *GormShippingRepository) DeleteRate(id uint) error {
	return r.db.Delete(&models.ShippingRate{}, id).Error
}
