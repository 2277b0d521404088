package service

import (
	"strings"

	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"gorm.io/gorm"
)

// DeliveryDetailInput 收货地址输入
type DeliveryDetailInput struct {
	Name        string
	Phone       string
	Country     string
	State       string
	City        string
	AddressLine string
	PostalCode  string
	IsDefault   bool
}

// DeliveryDetailService 收货地址服务
// 同一用户至多一个默认地址：设默认时在同一事务内清除旧默认标记。
type DeliveryDetailService struct {
	deliveryRepo repository.DeliveryDetailRepository
}

// NewDeliveryDetailService 创建收货地址服务
func NewDeliveryDetailService(deliveryRepo repository.DeliveryDetailRepository) *DeliveryDetailService {
	return &DeliveryDetailService{deliveryRepo: deliveryRepo}
}

// List 获取用户收货地址
func (s *DeliveryDetailService) List(userID uint) ([]models.DeliveryDetail, error) {
	return s.deliveryRepo.ListByUser(userID)
}

// Get 获取用户收货地址详情
func (s *DeliveryDetailService) Get(id, userID uint) (*models.DeliveryDetail, error) {
	detail, err := s.deliveryRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrDeliveryDetailNotFound
	}
	return detail, nil
}

// Create 新增收货地址
func (s *DeliveryDetailService) Create(userID uint, input DeliveryDetailInput) (*models.DeliveryDetail, error) {
	if err := validateDeliveryDetailInput(input); err != nil {
		return nil, err
	}
	detail := &models.DeliveryDetail{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Phone:       strings.TrimSpace(input.Phone),
		Country:     strings.TrimSpace(input.Country),
		State:       strings.TrimSpace(input.State),
		City:        strings.TrimSpace(input.City),
		AddressLine: strings.TrimSpace(input.AddressLine),
		PostalCode:  strings.TrimSpace(input.PostalCode),
		IsDefault:   input.IsDefault,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.deliveryRepo.WithTx(tx)
		if detail.IsDefault {
			if err := repo.ClearDefaultByUser(userID); err != nil {
				return err
			}
		}
		return repo.Create(detail)
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Update 更新收货地址
func (s *DeliveryDetailService) Update(id, userID uint, input DeliveryDetailInput) (*models.DeliveryDetail, error) {
	if err := validateDeliveryDetailInput(input); err != nil {
		return nil, err
	}
	detail, err := s.deliveryRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrDeliveryDetailNotFound
	}

	detail.Name = strings.TrimSpace(input.Name)
	detail.Phone = strings.TrimSpace(input.Phone)
	detail.Country = strings.TrimSpace(input.Country)
	detail.State = strings.TrimSpace(input.State)
	detail.City = strings.TrimSpace(input.City)
	detail.AddressLine = strings.TrimSpace(input.AddressLine)
	detail.PostalCode = strings.TrimSpace(input.PostalCode)
	detail.IsDefault = input.IsDefault

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.deliveryRepo.WithTx(tx)
		if detail.IsDefault {
			if err := repo.ClearDefaultByUser(userID); err != nil {
				return err
			}
		}
		return repo.Update(detail)
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete 删除收货地址
func (s *DeliveryDetailService) Delete(id, userID uint) error {
	detail, err := s.deliveryRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if detail == nil {
		return ErrDeliveryDetailNotFound
	}
	return s.deliveryRepo.DeleteByIDAndUser(id, userID)
}

func validateDeliveryDetailInput(input DeliveryDetailInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Country) == "" {
		return ErrDeliveryDetailInvalid
	}
	return nil
}
