package validator_test

import (
	"context"
	"testing"

	"gallery/internal/domain/model"
	"gallery/internal/repository"
	"gallery/internal/usecase"
	"gallery/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type usersMock struct{ mock.Mock }

func (m *usersMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in validator tests")
}

func (m *usersMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	panic("not used in validator tests")
}

func (m *usersMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *usersMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in validator tests")
}

func (m *usersMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used in validator tests")
}

func TestAuthValidator_ValidateRegister(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		existing *model.User
		wantErr  error
	}{
		{name: "ok", email: "new@example.com", password: "password123", wantErr: nil},
		{name: "empty email", email: "", password: "password123", wantErr: validator.ErrInvalidInput},
		{name: "bad email", email: "not-an-email", password: "password123", wantErr: validator.ErrInvalidInput},
		{name: "short password", email: "new@example.com", password: "short", wantErr: validator.ErrInvalidInput},
		{name: "duplicate email", email: "used@example.com", password: "password123", existing: &model.User{ID: 1, Email: "used@example.com"}, wantErr: validator.ErrEmailAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &usersMock{}
			if tt.existing != nil {
				users.On("FindByEmail", mock.Anything, tt.email).Return(tt.existing, nil)
			} else {
				users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, repository.ErrUserNotFound)
			}
			v := validator.NewAuthValidator(users)

			err := v.ValidateRegister(context.Background(), tt.email, tt.password)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuthValidator_ValidateRefresh(t *testing.T) {
	v := validator.NewAuthValidator(&usersMock{})

	assert.ErrorIs(t, v.ValidateRefresh(context.Background(), "  ", "ua"), validator.ErrInvalidRefresh)
	assert.NoError(t, v.ValidateRefresh(context.Background(), "some-token", "ua"))
}

func TestShippingValidator(t *testing.T) {
	v := validator.NewShippingValidator()

	valid := usecase.ShippingInfo{
		Name:       "山田 太郎",
		PostalCode: "150-0001",
		Prefecture: "Tokyo",
		City:       "Shibuya",
		Line1:      "1-2-3 Jingumae",
	}
	assert.NoError(t, v.ValidateShipping(valid))

	missingCity := valid
	missingCity.City = ""
	assert.EqualError(t, v.ValidateShipping(missingCity), "shipping city required")

	tooLong := valid
	for len(tooLong.Line1) <= 255 {
		tooLong.Line1 += tooLong.Line1
	}
	assert.EqualError(t, v.ValidateShipping(tooLong), "shipping field too long")
}
