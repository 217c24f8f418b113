package usecase_test

import (
	"context"
	"testing"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
	"gallery/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuditLogUsecase_List_InvalidLimit(t *testing.T) {
	audit := &AuditRepoMock{}
	uc := usecase.NewAuditLogUsecase(audit)

	_, err := uc.List(context.Background(), repo.AuditLogFilter{Limit: 500})

	assertErrContains(t, err, "invalid limit")
	audit.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAuditLogUsecase_List_PassesFilterThrough(t *testing.T) {
	audit := &AuditRepoMock{}
	uc := usecase.NewAuditLogUsecase(audit)

	action := model.AuditActionUpdateStock
	filter := repo.AuditLogFilter{Limit: 50, Action: &action}
	audit.On("List", mock.Anything, filter).Return([]model.AuditLog{
		{ID: 1, ActorUserID: 9, Action: model.AuditActionUpdateStock},
	}, nil)

	list, err := uc.List(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, list, 1)
}
