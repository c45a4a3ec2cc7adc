package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// FirstSupervisor 返回花名册中的首个主管（宽松模式的回退审批人）
	FirstSupervisor(ctx context.Context) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TechnicianRepository 技术员数据访问接口
type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*model.Technician, error)
	GetByUserID(ctx context.Context, userID string) (*model.Technician, error)
}

// ── User Repository 实现 ──

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND is_active", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FirstSupervisor(ctx context.Context) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active", model.RoleSupervisor).
		Order("created_at ASC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Update("password_hash", passwordHash).Error
}

// ── Technician Repository 实现 ──

type technicianRepo struct {
	db *gorm.DB
}

func NewTechnicianRepo(db *gorm.DB) TechnicianRepository {
	return &technicianRepo{db: db}
}

func (r *technicianRepo) GetByID(ctx context.Context, id string) (*model.Technician, error) {
	var tech model.Technician
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("technician_id = ?", id).
		First(&tech).Error
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *technicianRepo) GetByUserID(ctx context.Context, userID string) (*model.Technician, error) {
	var tech model.Technician
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active", userID).
		First(&tech).Error
	if err != nil {
		return nil, err
	}
	return &tech, nil
}
