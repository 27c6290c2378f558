package repository

import (
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByCedula(db *gorm.DB, cedula string) (*entity.User, error)
	FindAll(db *gorm.DB, role entity.Role) ([]entity.User, error)
	Update(db *gorm.DB, user *entity.User) error
}
