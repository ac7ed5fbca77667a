package service

import (
	"strings"

	"steamlib/database/model"

	"gorm.io/gorm"
)

// GameSummary is the catalog view handed to the UI layer.
type GameSummary struct {
	Title     string
	Publisher string
}

type GameService struct {
	db *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{db: db}
}

// ListGames returns the catalog ordered by title. A non-empty filter keeps
// only titles containing it, case-insensitively.
func (s *GameService) ListGames(filter string) ([]GameSummary, error) {
	var games []model.Game
	q := s.db.Preload("Publisher").Order("title asc")
	if filter != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter)+"%")
	}
	if err := q.Find(&games).Error; err != nil {
		return nil, err
	}

	summaries := make([]GameSummary, 0, len(games))
	for _, game := range games {
		summary := GameSummary{Title: game.Title}
		if game.Publisher != nil {
			summary.Publisher = game.Publisher.Name
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
