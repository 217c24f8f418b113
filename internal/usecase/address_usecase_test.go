package usecase_test

import (
	"context"
	"testing"

	"gallery/internal/domain/model"
	"gallery/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAddressFixture() (*AddressRepoMock, *usecase.AddressUsecase) {
	addresses := &AddressRepoMock{}
	return addresses, usecase.NewAddressUsecase(addresses)
}

func TestAddressUsecase_Create_MissingRequiredField(t *testing.T) {
	addresses, uc := newAddressFixture()

	_, err := uc.Create(context.Background(), 1, usecase.AddressCreateRequest{
		PostalCode: "150-0001",
		Prefecture: "Tokyo",
		// Cityなし
		Line1: "1-2-3",
		Name:  "山田 太郎",
	})

	assert.ErrorIs(t, err, usecase.ErrValidation)
	addresses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddressUsecase_Create_Success(t *testing.T) {
	addresses, uc := newAddressFixture()
	addresses.On("Create", mock.Anything, mock.Anything).Return(model.Address{
		ID: 3, UserID: 1, PostalCode: "150-0001", Prefecture: "Tokyo", City: "Shibuya", Line1: "1-2-3", Name: "山田 太郎",
	}, nil)

	dto, err := uc.Create(context.Background(), 1, usecase.AddressCreateRequest{
		PostalCode: "150-0001",
		Prefecture: "Tokyo",
		City:       "Shibuya",
		Line1:      "1-2-3",
		Name:       "山田 太郎",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), dto.ID)
	assert.False(t, dto.IsDefault)
}

func TestAddressUsecase_Update_ForeignAddressIsForbidden(t *testing.T) {
	addresses, uc := newAddressFixture()
	addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(2)).Return(false, nil)

	err := uc.Update(context.Background(), 2, 3, usecase.AddressUpdateRequest{City: "Osaka"})

	assert.ErrorIs(t, err, usecase.ErrForbidden)
	addresses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddressUsecase_SetDefault_DelegatesAfterOwnershipCheck(t *testing.T) {
	addresses, uc := newAddressFixture()
	addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(1)).Return(true, nil)
	addresses.On("SetDefault", mock.Anything, int64(1), int64(3)).Return(nil)

	err := uc.SetDefault(context.Background(), 1, 3)

	assert.NoError(t, err)
	addresses.AssertExpectations(t)
}

func TestAddressUsecase_Delete_OwnedAddress(t *testing.T) {
	addresses, uc := newAddressFixture()
	addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(1)).Return(true, nil)
	addresses.On("Delete", mock.Anything, int64(3)).Return(nil)

	err := uc.Delete(context.Background(), 1, 3)

	assert.NoError(t, err)
}
