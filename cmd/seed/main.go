package main

import (
	"fmt"
	"log"

	"github.com/vendora-next/internal/authz"
	"github.com/vendora-next/internal/config"
	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化预置角色（seller / agent / admin）
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz service: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap builtin roles: %v", err)
	}
	stdLog.Println("Bootstrapped builtin roles: seller, agent, admin")

	// 添加演示用户（店主）
	demoUser := seedUser(stdLog, "owner@example.com", "Owner@12345", "Demo Store Owner")

	// 添加店铺
	stores := []models.Store{
		{
			OwnerUserID: demoUser.ID,
			Slug:        "central-kitchen",
			Name:        "Central Kitchen",
			Description: "Fresh meals prepared daily and delivered within the city.",
			Status:      constants.StoreStatusActive,
		},
		{
			OwnerUserID: demoUser.ID,
			Slug:        "daily-grocer",
			Name:        "Daily Grocer",
			Description: "Groceries and household essentials.",
			Status:      constants.StoreStatusActive,
		},
	}

	storeIDs := map[string]uint{}
	for _, store := range stores {
		var existing models.Store
		if err := models.DB.Where("slug = ?", store.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&store).Error; err != nil {
				stdLog.Printf("Failed to create store %s: %v", store.Slug, err)
				continue
			}
			stdLog.Printf("Created store: %s", store.Slug)
			storeIDs[store.Slug] = store.ID
		} else {
			stdLog.Printf("Store already exists: %s", existing.Slug)
			storeIDs[existing.Slug] = existing.ID
		}
	}
	centralKitchenID := storeIDs["central-kitchen"]
	dailyGrocerID := storeIDs["daily-grocer"]

	// 添加分类
	categories := []models.Category{
		{
			NameJSON: models.JSON(map[string]interface{}{
				"zh-CN": "熟食简餐",
				"zh-TW": "熟食簡餐",
				"en-US": "Prepared Meals",
			}),
			Slug:      "prepared-meals",
			SortOrder: 300,
		},
		{
			NameJSON: models.JSON(map[string]interface{}{
				"zh-CN": "新鲜食材",
				"zh-TW": "新鮮食材",
				"en-US": "Fresh Produce",
			}),
			Slug:      "fresh-produce",
			SortOrder: 200,
		},
		{
			NameJSON: models.JSON(map[string]interface{}{
				"zh-CN": "日用百货",
				"zh-TW": "日用百貨",
				"en-US": "Household",
			}),
			Slug:      "household",
			SortOrder: 100,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"prepared-meals", "fresh-produce", "household"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加商品（规格承载价格与库存）
	type variationSeed struct {
		Name  string
		Spec  models.JSON
		Price float64
		Stock int
		Sort  int
	}
	type productSeed struct {
		Product    models.Product
		Variations []variationSeed
	}

	products := []productSeed{
		{
			Product: models.Product{
				StoreID:    centralKitchenID,
				CategoryID: categoryIDs["prepared-meals"],
				Slug:       "teriyaki-chicken-bowl",
				TitleJSON: models.JSON(map[string]interface{}{
					"zh-CN": "照烧鸡肉饭",
					"zh-TW": "照燒雞肉飯",
					"en-US": "Teriyaki Chicken Bowl",
				}),
				DescriptionJSON: models.JSON(map[string]interface{}{
					"zh-CN": "现做照烧鸡肉配时蔬与米饭",
					"zh-TW": "現做照燒雞肉配時蔬與米飯",
					"en-US": "Freshly made teriyaki chicken with rice and vegetables",
				}),
				Images: models.StringArray([]string{
					"https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=800",
				}),
				Tags:      models.StringArray([]string{"Meal", "Chicken"}),
				IsActive:  true,
				SortOrder: 300,
			},
			Variations: []variationSeed{
				{Name: "Regular", Spec: models.JSON(map[string]interface{}{"size": "regular"}), Price: 9.90, Stock: 40, Sort: 200},
				{Name: "Large", Spec: models.JSON(map[string]interface{}{"size": "large"}), Price: 12.90, Stock: 25, Sort: 100},
			},
		},
		{
			Product: models.Product{
				StoreID:    centralKitchenID,
				CategoryID: categoryIDs["prepared-meals"],
				Slug:       "garden-salad",
				TitleJSON: models.JSON(map[string]interface{}{
					"zh-CN": "田园沙拉",
					"zh-TW": "田園沙拉",
					"en-US": "Garden Salad",
				}),
				DescriptionJSON: models.JSON(map[string]interface{}{
					"zh-CN": "当季蔬菜沙拉，附油醋汁",
					"zh-TW": "當季蔬菜沙拉，附油醋汁",
					"en-US": "Seasonal greens with vinaigrette on the side",
				}),
				Images: models.StringArray([]string{
					"https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=800",
				}),
				Tags:      models.StringArray([]string{"Salad", "Vegetarian"}),
				IsActive:  true,
				SortOrder: 280,
			},
			Variations: []variationSeed{
				{Name: "Single", Spec: models.JSON(map[string]interface{}{"size": "single"}), Price: 6.50, Stock: 30, Sort: 100},
			},
		},
		{
			Product: models.Product{
				StoreID:    dailyGrocerID,
				CategoryID: categoryIDs["fresh-produce"],
				Slug:       "organic-banana-bunch",
				TitleJSON: models.JSON(map[string]interface{}{
					"zh-CN": "有机香蕉",
					"zh-TW": "有機香蕉",
					"en-US": "Organic Banana Bunch",
				}),
				DescriptionJSON: models.JSON(map[string]interface{}{
					"zh-CN": "有机种植，约 1 公斤一把",
					"zh-TW": "有機種植，約 1 公斤一把",
					"en-US": "Organically grown, about 1kg per bunch",
				}),
				Images: models.StringArray([]string{
					"https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e?w=800",
				}),
				Tags:      models.StringArray([]string{"Fruit", "Organic"}),
				IsActive:  true,
				SortOrder: 260,
			},
			Variations: []variationSeed{
				{Name: "1kg", Spec: models.JSON(map[string]interface{}{"weight": "1kg"}), Price: 3.20, Stock: 100, Sort: 100},
			},
		},
		{
			Product: models.Product{
				StoreID:    dailyGrocerID,
				CategoryID: categoryIDs["household"],
				Slug:       "laundry-detergent",
				TitleJSON: models.JSON(map[string]interface{}{
					"zh-CN": "洗衣液",
					"zh-TW": "洗衣液",
					"en-US": "Laundry Detergent",
				}),
				DescriptionJSON: models.JSON(map[string]interface{}{
					"zh-CN": "低敏配方，机洗手洗皆宜",
					"zh-TW": "低敏配方，機洗手洗皆宜",
					"en-US": "Hypoallergenic formula for machine and hand wash",
				}),
				Images: models.StringArray([]string{
					"https://images.unsplash.com/photo-1610557892470-55d9e80c0bce?w=800",
				}),
				Tags:      models.StringArray([]string{"Cleaning"}),
				IsActive:  true,
				SortOrder: 240,
			},
			Variations: []variationSeed{
				{Name: "1L", Spec: models.JSON(map[string]interface{}{"volume": "1L"}), Price: 5.90, Stock: 60, Sort: 200},
				{Name: "3L", Spec: models.JSON(map[string]interface{}{"volume": "3L"}), Price: 13.90, Stock: 20, Sort: 100},
			},
		},
		{
			Product: models.Product{
				StoreID:    dailyGrocerID,
				CategoryID: categoryIDs["household"],
				Slug:       "demo-sold-out",
				TitleJSON: models.JSON(map[string]interface{}{
					"zh-CN": "演示商品（已售罄）",
					"zh-TW": "演示商品（已售罄）",
					"en-US": "Demo Product (Sold Out)",
				}),
				DescriptionJSON: models.JSON(map[string]interface{}{
					"zh-CN": "用于前台售罄与禁购展示",
					"zh-TW": "用於前台售罄與禁購展示",
					"en-US": "For sold-out badge and disabled purchase demo",
				}),
				Images: models.StringArray([]string{
					"https://images.unsplash.com/photo-1512499617640-c74ae3a79d37?w=800",
				}),
				Tags:      models.StringArray([]string{"Demo"}),
				IsActive:  true,
				SortOrder: 100,
			},
			Variations: []variationSeed{
				{Name: "Default", Spec: models.JSON(map[string]interface{}{}), Price: 9.99, Stock: 0, Sort: 100},
			},
		},
	}

	for _, seed := range products {
		prod := seed.Product
		if prod.StoreID == 0 || prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: store_id or category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
				continue
			}
			stdLog.Printf("Created product: %s", prod.Slug)
		} else {
			existing.TitleJSON = prod.TitleJSON
			existing.DescriptionJSON = prod.DescriptionJSON
			existing.StoreID = prod.StoreID
			existing.CategoryID = prod.CategoryID
			existing.Images = prod.Images
			existing.Tags = prod.Tags
			existing.IsActive = prod.IsActive
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
				continue
			}
			stdLog.Printf("Updated product: %s", prod.Slug)
			prod = existing
		}

		for _, v := range seed.Variations {
			var existingVar models.ProductVariation
			if err := models.DB.Where("product_id = ? AND name = ?", prod.ID, v.Name).First(&existingVar).Error; err != nil {
				variation := models.ProductVariation{
					ProductID:     prod.ID,
					Name:          v.Name,
					SpecJSON:      v.Spec,
					PriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(v.Price)),
					StockQuantity: v.Stock,
					IsActive:      true,
					SortOrder:     v.Sort,
				}
				if err := models.DB.Create(&variation).Error; err != nil {
					stdLog.Printf("Failed to create variation %s/%s: %v", prod.Slug, v.Name, err)
				}
				continue
			}
			existingVar.SpecJSON = v.Spec
			existingVar.PriceAmount = models.NewMoneyFromDecimal(decimal.NewFromFloat(v.Price))
			existingVar.StockQuantity = v.Stock
			existingVar.IsActive = true
			existingVar.SortOrder = v.Sort
			if err := models.DB.Save(&existingVar).Error; err != nil {
				stdLog.Printf("Failed to update variation %s/%s: %v", prod.Slug, v.Name, err)
			}
		}
	}

	// 添加配送方式
	methods := []models.ShippingMethod{
		{Name: "Standard Delivery", Description: "Delivered within 2-4 days", IsActive: true},
		{Name: "Express Delivery", Description: "Delivered next day", IsActive: true},
	}
	methodIDs := map[string]uint{}
	for _, method := range methods {
		var existing models.ShippingMethod
		if err := models.DB.Where("name = ?", method.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&method).Error; err != nil {
				stdLog.Printf("Failed to create shipping method %s: %v", method.Name, err)
				continue
			}
			stdLog.Printf("Created shipping method: %s", method.Name)
			methodIDs[method.Name] = method.ID
		} else {
			stdLog.Printf("Shipping method already exists: %s", existing.Name)
			methodIDs[existing.Name] = existing.ID
		}
	}

	// 添加配送区域（state/city 为空表示通配，匹配取最具体）
	state := "Kuala Lumpur"
	city := "Kuala Lumpur"
	zones := []models.ShippingZone{
		{Country: "Malaysia"},
		{Country: "Malaysia", State: &state},
		{Country: "Malaysia", State: &state, City: &city},
		{Country: "Singapore"},
	}
	zoneIDs := make([]uint, 0, len(zones))
	for _, zone := range zones {
		query := models.DB.Where("country = ?", zone.Country)
		if zone.State != nil {
			query = query.Where("state = ?", *zone.State)
		} else {
			query = query.Where("state IS NULL")
		}
		if zone.City != nil {
			query = query.Where("city = ?", *zone.City)
		} else {
			query = query.Where("city IS NULL")
		}
		var existing models.ShippingZone
		if err := query.First(&existing).Error; err != nil {
			if err := models.DB.Create(&zone).Error; err != nil {
				stdLog.Printf("Failed to create shipping zone %s: %v", zone.Country, err)
				continue
			}
			stdLog.Printf("Created shipping zone: %s", zone.Country)
			zoneIDs = append(zoneIDs, zone.ID)
		} else {
			zoneIDs = append(zoneIDs, existing.ID)
		}
	}

	// 添加配送费率（每个 方式×区域 至多一条）
	type rateSeed struct {
		MethodName string
		ZoneIndex  int
		Cost       float64
		DaysMin    int
		DaysMax    int
	}
	rates := []rateSeed{
		{MethodName: "Standard Delivery", ZoneIndex: 0, Cost: 8.00, DaysMin: 3, DaysMax: 5},
		{MethodName: "Standard Delivery", ZoneIndex: 1, Cost: 5.00, DaysMin: 2, DaysMax: 4},
		{MethodName: "Standard Delivery", ZoneIndex: 2, Cost: 3.50, DaysMin: 1, DaysMax: 3},
		{MethodName: "Express Delivery", ZoneIndex: 2, Cost: 7.00, DaysMin: 0, DaysMax: 1},
		{MethodName: "Standard Delivery", ZoneIndex: 3, Cost: 12.00, DaysMin: 4, DaysMax: 7},
	}
	for _, r := range rates {
		methodID := methodIDs[r.MethodName]
		if methodID == 0 || r.ZoneIndex >= len(zoneIDs) {
			stdLog.Printf("Skip rate seed for %s: method or zone missing", r.MethodName)
			continue
		}
		zoneID := zoneIDs[r.ZoneIndex]
		var existing models.ShippingRate
		if err := models.DB.Where("shipping_method_id = ? AND zone_id = ?", methodID, zoneID).First(&existing).Error; err != nil {
			rate := models.ShippingRate{
				ShippingMethodID: methodID,
				ZoneID:           zoneID,
				Cost:             models.NewMoneyFromDecimal(decimal.NewFromFloat(r.Cost)),
				DaysMin:          r.DaysMin,
				DaysMax:          r.DaysMax,
			}
			if err := models.DB.Create(&rate).Error; err != nil {
				stdLog.Printf("Failed to create shipping rate %s/zone %d: %v", r.MethodName, zoneID, err)
			}
			continue
		}
		existing.Cost = models.NewMoneyFromDecimal(decimal.NewFromFloat(r.Cost))
		existing.DaysMin = r.DaysMin
		existing.DaysMax = r.DaysMax
		if err := models.DB.Save(&existing).Error; err != nil {
			stdLog.Printf("Failed to update shipping rate %s/zone %d: %v", r.MethodName, zoneID, err)
		}
	}

	// 添加店铺侧账号（seller 绑定店铺，agent 负责派送）
	sellerAdmin := seedAdmin(stdLog, "seller-central", "Seller@12345", &centralKitchenID)
	if sellerAdmin != nil {
		if err := authzService.SetAdminRoles(sellerAdmin.ID, []string{constants.RoleSeller}); err != nil {
			stdLog.Printf("Failed to assign seller role: %v", err)
		}
	}
	agentAdmin := seedAdmin(stdLog, "agent-demo", "Agent@12345", nil)
	if agentAdmin != nil {
		if err := authzService.SetAdminRoles(agentAdmin.ID, []string{constants.RoleAgent}); err != nil {
			stdLog.Printf("Failed to assign agent role: %v", err)
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 2 Stores")
	fmt.Println("- 3 Categories")
	fmt.Println("- 5 Products with variations")
	fmt.Println("- 2 Shipping methods, 4 zones, 5 rates")
	fmt.Println("- Builtin roles + seller/agent demo accounts")
}

func seedUser(stdLog *log.Logger, email, password, displayName string) *models.User {
	var existing models.User
	if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		stdLog.Printf("User already exists: %s", email)
		return &existing
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("Failed to hash password for %s: %v", email, err)
		return &existing
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Printf("Failed to create user %s: %v", email, err)
		return &existing
	}
	stdLog.Printf("Created user: %s", email)
	return &user
}

func seedAdmin(stdLog *log.Logger, username, password string, storeID *uint) *models.Admin {
	var existing models.Admin
	if err := models.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		stdLog.Printf("Admin already exists: %s", username)
		return &existing
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("Failed to hash password for %s: %v", username, err)
		return nil
	}
	if storeID != nil && *storeID == 0 {
		storeID = nil
	}
	admin := models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		StoreID:      storeID,
	}
	if err := models.DB.Create(&admin).Error; err != nil {
		stdLog.Printf("Failed to create admin %s: %v", username, err)
		return nil
	}
	stdLog.Printf("Created admin: %s", username)
	return &admin
}
