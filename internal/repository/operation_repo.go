package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// OperationRepository 工序数据访问接口
type OperationRepository interface {
	GetByName(ctx context.Context, name string) (*model.Operation, error)
	List(ctx context.Context) ([]model.Operation, error)
}

type operationRepo struct {
	db *gorm.DB
}

func NewOperationRepo(db *gorm.DB) OperationRepository {
	return &operationRepo{db: db}
}

func (r *operationRepo) GetByName(ctx context.Context, name string) (*model.Operation, error) {
	var op model.Operation
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&op).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operationRepo) List(ctx context.Context) ([]model.Operation, error) {
	var ops []model.Operation
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&ops).Error
	return ops, err
}
