package repositories

import (
	"context"
	"strings"

	"laptopshop/internal/models"

	"gorm.io/gorm"
)

// CustomerFilter narrows a customer listing.
type CustomerFilter struct {
	// Search matches name or phone.
	Search string
	Tag    string
	Pagination
}

// CustomerRepository defines the interface for customer ledger data access.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]models.Customer, int64, error)
	Create(ctx context.Context, customer *models.Customer) error
	// AddSpend increments TotalSpent and OrderCount in a single statement.
	AddSpend(ctx context.Context, id string, amount int64) error
	Update(ctx context.Context, customer *models.Customer) error
}

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{db: db}
}

// GetByID retrieves a customer with its orders, newest first.
func (r *GORMCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Orders.Items").
		First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, wrapError("failed to get customer %s", err, id)
	}
	return &customer, nil
}

// GetByPhone retrieves a customer by phone without orders.
func (r *GORMCustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error; err != nil {
		return nil, wrapError("failed to get customer by phone %s", err, phone)
	}
	return &customer, nil
}

// List retrieves one page of customers, biggest spenders first.
func (r *GORMCustomerRepository) List(ctx context.Context, filter CustomerFilter) ([]models.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}
	if filter.Tag != "" {
		// tags are stored as a JSON array of strings
		query = query.Where("tags LIKE ?", `%"`+filter.Tag+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError("failed to count customers", err)
	}

	page := filter.Pagination.Normalize()
	var customers []models.Customer
	if err := query.Order("total_spent desc").Order("created_at asc").
		Limit(page.Limit).Offset(page.Offset()).Find(&customers).Error; err != nil {
		return nil, 0, wrapError("failed to list customers", err)
	}
	return customers, total, nil
}

func (r *GORMCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Omit("Orders").Create(customer).Error; err != nil {
		return wrapError("failed to create customer %s", err, customer.Phone)
	}
	return nil
}

func (r *GORMCustomerRepository) AddSpend(ctx context.Context, id string, amount int64) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_spent": gorm.Expr("total_spent + ?", amount),
			"order_count": gorm.Expr("order_count + ?", 1),
		})
	if res.Error != nil {
		return wrapError("failed to add spend to customer %s", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return wrapError("customer %s not found", gorm.ErrRecordNotFound, id)
	}
	return nil
}

// Update writes the profile columns. TotalSpent and OrderCount are only
// changed through AddSpend.
func (r *GORMCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	res := r.db.WithContext(ctx).Model(customer).
		Select("name", "email", "address", "tags", "note").
		Updates(customer)
	if res.Error != nil {
		return wrapError("failed to update customer %s", res.Error, customer.ID)
	}
	return nil
}
