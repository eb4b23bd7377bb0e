package tags

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/oneiro-app/oneiro/pkg/oneiro/apperr"
	"github.com/oneiro-app/oneiro/pkg/oneiro/models"
)

// NormalizeNames trims each name, drops empties and de-duplicates by exact
// (case-sensitive) match, preserving first-seen order.
func NormalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FindOrCreateByNames resolves each name to a tag owned by userID, creating
// missing ones. Two callers racing on the same new name both settle on the
// single row guarded by the (user_id, name) unique index: a duplicate-key
// error on create means the other writer won, so the tag is re-fetched.
// Pass a transaction handle to make the resolution part of a larger write.
func FindOrCreateByNames(db *gorm.DB, userID uint, names []string) ([]models.Tag, error) {
	normalized := NormalizeNames(names)
	tags := make([]models.Tag, 0, len(normalized))

	for _, name := range normalized {
		var tag models.Tag
		err := db.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
		if err == nil {
			tags = append(tags, tag)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		tag = models.Tag{UserID: userID, Name: name}
		if err := db.Create(&tag).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, err
			}
			if err := db.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// ListByUser returns the user's tags ordered by name ascending.
func ListByUser(db *gorm.DB, userID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error
	return tags, err
}

// Rename changes a tag's name. Fails with NotFound when the tag is absent or
// owned by another user, and with DuplicateName when the user already has a
// tag with the new name.
func Rename(db *gorm.DB, userID, tagID uint, newName string) (*models.Tag, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperr.Validation("tag name is required")
	}

	var tag models.Tag
	if err := db.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.WithMessage(apperr.ErrNotFound, "tag not found")
		}
		return nil, err
	}

	if err := db.Model(&tag).Update("name", newName).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.WithMessage(apperr.ErrDuplicateName, "tag name already exists")
		}
		return nil, err
	}

	return &tag, nil
}

// DeleteIfUnreferenced removes a tag that no live dream log references.
// Deletion is rejected with HasAssociations while references exist; callers
// must detach the tag from their entries first.
func DeleteIfUnreferenced(db *gorm.DB, userID, tagID uint) error {
	var tag models.Tag
	if err := db.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.WithMessage(apperr.ErrNotFound, "tag not found")
		}
		return err
	}

	var count int64
	err := db.Table("dream_log_tags").
		Joins("INNER JOIN dream_logs ON dream_logs.id = dream_log_tags.dream_log_id AND dream_logs.deleted_at IS NULL").
		Where("dream_log_tags.tag_id = ?", tag.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.WithMessage(apperr.ErrHasAssociations, "tag is still attached to dream logs")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Join rows left behind by soft-deleted dream logs go with the tag.
		if err := tx.Exec("DELETE FROM dream_log_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
