package dreamlogs

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oneiro-app/oneiro/pkg/oneiro/apperr"
	"github.com/oneiro-app/oneiro/pkg/oneiro/models"
	"github.com/oneiro-app/oneiro/pkg/oneiro/tags"
)

// Patch carries the optional fields of an update. Nil means "leave as is".
// A non-nil TagNames replaces the entry's whole tag set, even when empty;
// scalar fields are merged. The asymmetry is deliberate and matches the
// update endpoint's contract.
type Patch struct {
	Description *string
	DreamDate   *time.Time
	IsNap       *bool
	TagNames    *[]string
}

var errNotFound = apperr.WithMessage(apperr.ErrNotFound, "dream log not found")

// Create persists a new entry together with its resolved tag set. The entry
// and its associations become visible together or not at all.
func Create(db *gorm.DB, userID uint, description string, dreamDate time.Time, isNap bool, tagNames []string) (*models.DreamLog, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Validation("description is required")
	}

	var entry models.DreamLog
	err := db.Transaction(func(tx *gorm.DB) error {
		resolved, err := tags.FindOrCreateByNames(tx, userID, tagNames)
		if err != nil {
			return err
		}

		entry = models.DreamLog{
			UserID:      userID,
			Description: description,
			DreamDate:   dreamDate,
			IsNap:       isNap,
			Tags:        resolved,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Update applies a patch to the user's entry. Only supplied fields change.
func Update(db *gorm.DB, userID, id uint, patch Patch) (*models.DreamLog, error) {
	updates := map[string]interface{}{}

	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, apperr.Validation("description cannot be empty")
		}
		updates["description"] = description
	}
	if patch.DreamDate != nil {
		updates["dream_date"] = *patch.DreamDate
	}
	if patch.IsNap != nil {
		updates["is_nap"] = *patch.IsNap
	}
	if len(updates) == 0 && patch.TagNames == nil {
		return nil, apperr.Validation("no updates provided")
	}

	var entry models.DreamLog
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&entry).Updates(updates).Error; err != nil {
				return err
			}
		}

		if patch.TagNames != nil {
			resolved, err := tags.FindOrCreateByNames(tx, userID, *patch.TagNames)
			if err != nil {
				return err
			}
			assoc := tx.Model(&entry).Association("Tags")
			if len(resolved) == 0 {
				if err := assoc.Clear(); err != nil {
					return err
				}
			} else if err := assoc.Replace(resolved); err != nil {
				return err
			}
		}

		return tx.Preload("Tags").First(&entry, entry.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Delete removes the user's entry and its tag associations. The tags
// themselves survive.
func Delete(db *gorm.DB, userID, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var entry models.DreamLog
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}

		if err := tx.Model(&entry).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&entry).Error
	})
}

// GetByID returns the user's entry with its tag set. A foreign entry is
// reported exactly like a missing one.
func GetByID(db *gorm.DB, userID, id uint) (*models.DreamLog, error) {
	var entry models.DreamLog
	err := db.Preload("Tags").Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// Filters narrows ListByUser results.
type Filters struct {
	Query string // substring match on description
	Tag   string // exact tag name
	IsNap *bool
}

// ListByUser returns the user's entries newest-first with tag sets preloaded.
func ListByUser(db *gorm.DB, userID uint, f Filters) ([]models.DreamLog, error) {
	q := db.Preload("Tags").Where("dream_logs.user_id = ?", userID).Order("dream_logs.created_at DESC")

	if f.Query != "" {
		q = q.Where("description LIKE ?", "%"+f.Query+"%")
	}
	if f.Tag != "" {
		q = q.Joins("INNER JOIN dream_log_tags ON dream_log_tags.dream_log_id = dream_logs.id").
			Joins("INNER JOIN tags ON tags.id = dream_log_tags.tag_id").
			Where("tags.name = ? AND tags.user_id = ?", f.Tag, userID)
	}
	if f.IsNap != nil {
		q = q.Where("is_nap = ?", *f.IsNap)
	}

	var entries []models.DreamLog
	err := q.Find(&entries).Error
	return entries, err
}
