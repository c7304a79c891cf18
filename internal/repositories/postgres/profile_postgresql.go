package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

// ProfilePostgreSQL stores the profile documents backing identities.
type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := p.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	normalizeLists(&user)
	return &user, nil
}

func (p *ProfilePostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := p.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	normalizeLists(&user)
	return &user, nil
}

func (p *ProfilePostgreSQL) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := p.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check profile existence: %w", err)
	}
	return count > 0, nil
}

func (p *ProfilePostgreSQL) Create(ctx context.Context, user *models.User) error {
	normalizeLists(user)
	if err := p.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Merge applies a partial update. Only fields present in the update are
// written; list fields replace the stored list wholesale, matching the
// document-merge semantics of the upstream store.
func (p *ProfilePostgreSQL) Merge(ctx context.Context, id string, update *models.ProfileUpdate) error {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.AvatarURL != nil {
		fields["avatar_url"] = *update.AvatarURL
	}
	if update.Skills != nil {
		fields["skills"] = datatypes.NewJSONSlice(update.Skills)
	}
	if update.Achievements != nil {
		fields["achievements"] = datatypes.NewJSONSlice(update.Achievements)
	}
	if update.Following != nil {
		fields["following"] = datatypes.NewJSONSlice(update.Following)
	}
	if update.Followers != nil {
		fields["followers"] = datatypes.NewJSONSlice(update.Followers)
	}
	if len(fields) == 0 {
		return nil
	}

	result := p.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to merge profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (p *ProfilePostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := p.db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	var users []*models.User
	if err := applyPagination(query.Order("created_at desc"), filters.Limit, filters.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	for _, u := range users {
		normalizeLists(u)
	}
	return users, total, nil
}

// normalizeLists keeps the "never null once the document exists"
// invariant even for rows written before a column existed.
func normalizeLists(user *models.User) {
	if user.Skills == nil {
		user.Skills = datatypes.NewJSONSlice([]string{})
	}
	if user.Achievements == nil {
		user.Achievements = datatypes.NewJSONSlice([]string{})
	}
	if user.Following == nil {
		user.Following = datatypes.NewJSONSlice([]string{})
	}
	if user.Followers == nil {
		user.Followers = datatypes.NewJSONSlice([]string{})
	}
}
