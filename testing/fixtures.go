// Package testing provides test utilities and database setup for testing the ambassador platform
package testing

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a test user with the given role
func (tf *TestFixtures) CreateTestUser(role string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(10000000)
	user := &models.User{
		Email:        fmt.Sprintf("jane.doe.%d@example.com", suffix),
		FirstName:    "Jane",
		LastName:     "Doe",
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestAmbassador creates an active ambassador user
func (tf *TestFixtures) CreateTestAmbassador() (*models.User, error) {
	return tf.CreateTestUser(models.RoleAmbassador)
}

// CreateTestProduct creates a product with the given commission configuration
func (tf *TestFixtures) CreateTestProduct(price float64, commissionType models.CommissionType, commissionValue float64, stock int) (*models.Product, error) {
	suffix := rand.Intn(10000000)
	product := &models.Product{
		Title:           fmt.Sprintf("Test Product %d", suffix),
		Price:           price,
		CommissionType:  commissionType,
		CommissionValue: commissionValue,
		StockQuantity:   stock,
		Category:        "test-category",
		IsActive:        utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}

	return product, nil
}

// CreateTestCategoryCommission creates a category fallback commission row
func (tf *TestFixtures) CreateTestCategoryCommission(category string, commissionType models.CommissionType, value float64) (*models.CategoryCommission, error) {
	row := &models.CategoryCommission{
		Category:        category,
		CommissionType:  commissionType,
		CommissionValue: value,
	}

	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create test category commission: %w", err)
	}

	return row, nil
}

// CreateTestReferralLink creates a referral link for a (user, product) pair
func (tf *TestFixtures) CreateTestReferralLink(userID, productID uint) (*models.ReferralLink, error) {
	link := &models.ReferralLink{
		UserID:    userID,
		ProductID: productID,
		Code:      randomCode(),
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test referral link: %w", err)
	}

	return link, nil
}

// SetClickCommission writes the click commission platform setting
func (tf *TestFixtures) SetClickCommission(amount float64) error {
	row := &models.PlatformSetting{
		Key:   utils.ClickCommissionSettingKey,
		Value: strconv.FormatFloat(amount, 'f', -1, 64),
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return fmt.Errorf("failed to create click commission setting: %w", err)
	}
	return nil
}

func randomCode() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, models.ReferralCodeLength)
	for i := range buf {
		buf[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(buf)
}
