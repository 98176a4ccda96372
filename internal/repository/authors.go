// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"vibepress/internal/models"

	"gorm.io/gorm"
)

// loadAuthors resolves user ids to the embedded author projection in one
// query. Ids of since-deleted users simply have no entry in the result.
func loadAuthors(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]models.Author, error) {
	authors := make(map[uint]models.Author, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	var users []models.User
	if err := db.WithContext(ctx).
		Select("id", "username", "avatar").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}

	for _, u := range users {
		authors[u.ID] = models.AuthorOf(u)
	}
	return authors, nil
}

func blogAuthorIDs(blogs []*models.Blog) []uint {
	seen := make(map[uint]struct{}, len(blogs))
	ids := make([]uint, 0, len(blogs))
	for _, b := range blogs {
		if _, ok := seen[b.AuthorID]; ok {
			continue
		}
		seen[b.AuthorID] = struct{}{}
		ids = append(ids, b.AuthorID)
	}
	return ids
}
