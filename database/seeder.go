package database

import (
	"fmt"
	"time"

	"steamlib/database/model"
	"steamlib/logger"
	"steamlib/util/crypto"
	"steamlib/util/random"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed fills an empty store with first-run data: the three access roles,
// ten users, ten publishers, twenty games and a random ownership graph.
// Safe to call repeatedly; it does nothing once data exists.
func Seed(db *gorm.DB) error {
	if err := seedAccesses(db); err != nil {
		return err
	}

	for _, m := range []any{&model.User{}, &model.Publisher{}, &model.Game{}} {
		var count int64
		if err := db.Model(m).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
	}

	now := time.Now().UTC()

	access := &model.Access{}
	if err := db.Order("id asc").First(access).Error; err != nil {
		return err
	}

	users := make([]model.User, 0, 10)
	for i := 1; i <= 10; i++ {
		hash, err := crypto.HashPassword(fmt.Sprintf("HASHED_PASSWORD_%d", i))
		if err != nil {
			return err
		}
		users = append(users, model.User{
			Id:           i,
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: hash,
			AccessId:     access.Id,
			IsActive:     true,
			CreatedAt:    now,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	publishers := make([]model.Publisher, 0, 10)
	for i := 1; i <= 10; i++ {
		location := fmt.Sprintf("City %d", i)
		email := fmt.Sprintf("publisher%d@example.com", i)
		phone := fmt.Sprintf("+1-555-000%02d", i)
		creatorId := users[i%len(users)].Id
		publishers = append(publishers, model.Publisher{
			Id:              i,
			Name:            fmt.Sprintf("Publisher %d", i),
			Location:        &location,
			Email:           &email,
			Phone:           &phone,
			FoundedDate:     now.AddDate(-10-i, 0, 0),
			CreatedAt:       now,
			CreatedByUserId: &creatorId,
		})
	}
	if err := db.Create(&publishers).Error; err != nil {
		return err
	}

	games := make([]model.Game, 0, 20)
	for i := 1; i <= 20; i++ {
		description := fmt.Sprintf("Description for Game %d", i)
		genre := "RPG"
		if i%2 == 0 {
			genre = "Action"
		}
		ageRating := 12
		if i%3 == 0 {
			ageRating = 18
		}
		publisherId := publishers[i%len(publishers)].Id
		addedById := users[i%len(users)].Id
		games = append(games, model.Game{
			Id:            i,
			Title:         fmt.Sprintf("Game %d", i),
			Description:   &description,
			Genre:         &genre,
			Price:         decimal.NewFromFloat(19.99).Add(decimal.NewFromInt(int64(i))),
			ReleaseDate:   now.AddDate(0, 0, -i*30),
			AgeRating:     &ageRating,
			IsMultiplayer: i%2 == 0,
			PublisherId:   &publisherId,
			AddedByUserId: &addedById,
			CreatedAt:     now,
		})
	}
	if err := db.Create(&games).Error; err != nil {
		return err
	}

	// Each game gets two or three random owners.
	userGames := make([]model.UserGame, 0, len(games)*3)
	for _, game := range games {
		price := game.Price
		owners := random.Perm(len(users))[:2+random.Num(2)]
		for _, idx := range owners {
			userGames = append(userGames, model.UserGame{
				UserId:        users[idx].Id,
				GameId:        game.Id,
				AddedDate:     now.AddDate(0, 0, -5),
				IsFavorite:    random.Num(2) == 1,
				PurchasePrice: &price,
			})
		}
	}
	if err := db.Create(&userGames).Error; err != nil {
		return err
	}

	logger.Infof("seeded %d users, %d publishers, %d games", len(users), len(publishers), len(games))
	return nil
}

func seedAccesses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Access{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	accesses := []model.Access{
		{Id: 1, Name: "Administrator"},
		{Id: 2, Name: "User"},
		{Id: 3, Name: "Guest"},
	}
	return db.Create(&accesses).Error
}
