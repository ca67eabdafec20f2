package implementation

import (
	"context"
	"errors"

	"lost-london-agent/internal/entity"
	"lost-london-agent/internal/model"
	"lost-london-agent/internal/repository/contract"

	"gorm.io/gorm"
)

type UserProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) contract.UserProfileRepository {
	return &UserProfileRepositoryImpl{db: db}
}

func (r *UserProfileRepositoryImpl) GetProfile(ctx context.Context, userId string) (*entity.UserProfile, error) {
	var m model.UserProfile
	if err := r.db.WithContext(ctx).First(&m, "user_id = ?", userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.UserProfile{
		UserId:        m.UserId,
		PreferredName: m.PreferredName,
		KnownInterest: m.KnownInterest,
	}, nil
}
