package service

import (
	"strings"

	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"
)

// ShippingQuote 配送报价
type ShippingQuote struct {
	ZoneID  uint         `json:"zone_id"`
	Cost    models.Money `json:"cost"`
	DaysMin int          `json:"days_min"`
	DaysMax int          `json:"days_max"`
}

// ShippingService 配送服务：区域匹配、费率查询与后台维护
type ShippingService struct {
	shippingRepo repository.ShippingRepository
}

// NewShippingService 创建配送服务
func NewShippingService(shippingRepo repository.ShippingRepository) *ShippingService {
	return &ShippingService{shippingRepo: shippingRepo}
}

// FindZone 按 (国家, 省, 市) 匹配配送区域
// state/city 为 NULL 的区域行作为该层级的通配符。
// 匹配顺序固定：city 精确 > state 精确 > 国家级通配；同级多条命中取 id 最小的一条。
func (s *ShippingService) FindZone(country, state, city string) (*models.ShippingZone, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, ErrNoShippingZoneMatch
	}
	zones, err := s.shippingRepo.ListZonesByCountry(country)
	if err != nil {
		logger.Errorw("shipping_zone_fetch_failed", "country", country, "error", err)
		return nil, err
	}

	state = strings.TrimSpace(state)
	city = strings.TrimSpace(city)

	// zones 已按「最具体优先、同级 id 升序」排列，取第一条命中的即可
	for i := range zones {
		zone := zones[i]
		if zone.State != nil && !strings.EqualFold(*zone.State, state) {
			continue
		}
		if zone.City != nil && !strings.EqualFold(*zone.City, city) {
			continue
		}
		return &zone, nil
	}
	return nil, nil
}

// FindRate 获取 (配送方式, 区域) 的费率
func (s *ShippingService) FindRate(methodID, zoneID uint) (*models.ShippingRate, error) {
	return s.shippingRepo.GetRate(methodID, zoneID)
}

// Resolve 将地址解析为配送报价
// 存储层错误原样上抛，只有「查询成功但无命中」才映射为业务错误。
func (s *ShippingService) Resolve(country, state, city string, methodID uint) (*ShippingQuote, error) {
	zone, err := s.FindZone(country, state, city)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, ErrNoShippingZoneMatch
	}
	rate, err := s.FindRate(methodID, zone.ID)
	if err != nil {
		logger.Errorw("shipping_rate_fetch_failed", "method_id", methodID, "zone_id", zone.ID, "error", err)
		return nil, err
	}
	if rate == nil {
		return nil, ErrNoShippingRate
	}
	return &ShippingQuote{
		ZoneID:  zone.ID,
		Cost:    rate.Cost,
		DaysMin: rate.DaysMin,
		DaysMax: rate.DaysMax,
	}, nil
}

// ListMethods 获取启用中的配送方式
func (s *ShippingService) ListMethods() ([]models.ShippingMethod, error) {
	return s.shippingRepo.ListMethods(true)
}

// CreateMethodInput 创建配送方式入参
type CreateMethodInput struct {
	Name        string
	Description string
	IsActive    bool
}

// CreateMethod 创建配送方式
func (s *ShippingService) CreateMethod(input CreateMethodInput) (*models.ShippingMethod, error) {
	method := models.ShippingMethod{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    input.IsActive,
	}
	if err := s.shippingRepo.CreateMethod(&method); err != nil {
		return nil, err
	}
	return &method, nil
}

// UpdateMethod 更新配送方式
func (s *ShippingService) UpdateMethod(id uint, input CreateMethodInput) (*models.ShippingMethod, error) {
	method, err := s.shippingRepo.GetMethodByID(id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, ErrShippingMethodNotFound
	}
	method.Name = strings.TrimSpace(input.Name)
	method.Description = strings.TrimSpace(input.Description)
	method.IsActive = input.IsActive
	if err := s.shippingRepo.UpdateMethod(method); err != nil {
		return nil, err
	}
	return method, nil
}

// DeleteMethod 删除配送方式
func (s *ShippingService) DeleteMethod(id uint) error {
	method, err := s.shippingRepo.GetMethodByID(id)
	if err != nil {
		return err
	}
	if method == nil {
		return ErrShippingMethodNotFound
	}
	return s.shippingRepo.DeleteMethod(id)
}

// ListZones 获取全部配送区域
func (s *ShippingService) ListZones() ([]models.ShippingZone, error) {
	return s.shippingRepo.ListZones()
}

// CreateZoneInput 创建配送区域入参（State/City 为空表示通配）
type CreateZoneInput struct {
	Country string
	State   string
	City    string
}

// CreateZone 创建配送区域
func (s *ShippingService) CreateZone(input CreateZoneInput) (*models.ShippingZone, error) {
	zone := models.ShippingZone{Country: strings.TrimSpace(input.Country)}
	if state := strings.TrimSpace(input.State); state != "" {
		zone.State = &state
	}
	if city := strings.TrimSpace(input.City); city != "" {
		zone.City = &city
	}
	if err := s.shippingRepo.CreateZone(&zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// DeleteZone 删除配送区域
func (s *ShippingService) DeleteZone(id uint) error {
	zone, err := s.shippingRepo.GetZoneByID(id)
	if err != nil {
		return err
	}
	if zone == nil {
		return ErrShippingZoneNotFound
	}
	return s.shippingRepo.DeleteZone(id)
}

// ListRates 获取配送费率列表
func (s *ShippingService) ListRates() ([]models.ShippingRate, error) {
	return s.shippingRepo.ListRates()
}

// CreateRateInput 创建配送费率入参
type CreateRateInput struct {
	ShippingMethodID uint
	ZoneID           uint
	Cost             models.Money
	DaysMin          int
	DaysMax          int
}

// CreateRate 创建配送费率
func (s *ShippingService) CreateRate(input CreateRateInput) (*models.ShippingRate, error) {
	method, err := s.shippingRepo.GetMethodByID(input.ShippingMethodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, ErrShippingMethodNotFound
	}
	zone, err := s.shippingRepo.GetZoneByID(input.ZoneID)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, ErrShippingZoneNotFound
	}
	rate := models.ShippingRate{
		ShippingMethodID: input.ShippingMethodID,
		ZoneID:           input.ZoneID,
		Cost:             input.Cost,
		DaysMin:          input.DaysMin,
		DaysMax:          input.DaysMax,
	}
	if err := s.shippingRepo.CreateRate(&rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

// DeleteRate 删除配送费率
func (s *ShippingService) DeleteRate(id uint) error {
	return s.shippingRepo.DeleteRate(id)
}
