package service

import (
	"path/filepath"
	"testing"
	"time"

	"steamlib/database/model"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixtureCreatedAt = time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)

// seedGraph inserts two users, one publisher and two games: "Alpha" with
// every optional field and two ownership rows, "Beta" with none.
func seedGraph(t *testing.T, db *gorm.DB) {
	t.Helper()
	seedUsers(t, db)

	location := "Oslo"
	email := "pub@example.com"
	phone := "+47-555-0001"
	updated := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	creatorId := 1
	publisher := &model.Publisher{
		Id:              1,
		Name:            "Pub One",
		Location:        &location,
		Email:           &email,
		Phone:           &phone,
		FoundedDate:     time.Date(1999, 3, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:       fixtureCreatedAt,
		UpdatedAt:       &updated,
		CreatedByUserId: &creatorId,
	}
	require.NoError(t, db.Create(publisher).Error)

	description := "First game"
	genre := "RPG"
	ageRating := 18
	publisherId := 1
	addedById := 2
	alpha := &model.Game{
		Id:            1,
		Title:         "Alpha",
		Description:   &description,
		Genre:         &genre,
		Price:         decimal.NewFromFloat(59.90),
		ReleaseDate:   time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		AgeRating:     &ageRating,
		IsMultiplayer: true,
		PublisherId:   &publisherId,
		AddedByUserId: &addedById,
		CreatedAt:     fixtureCreatedAt,
	}
	require.NoError(t, db.Create(alpha).Error)

	beta := &model.Game{
		Id:          2,
		Title:       "Beta",
		Price:       decimal.NewFromInt(10),
		ReleaseDate: time.Date(2021, 7, 9, 0, 0, 0, 0, time.UTC),
		CreatedAt:   fixtureCreatedAt,
	}
	require.NoError(t, db.Create(beta).Error)

	purchase := decimal.NewFromFloat(49.90)
	rows := []model.UserGame{
		{UserId: 1, GameId: 1, AddedDate: time.Date(2022, 2, 3, 14, 30, 5, 0, time.UTC), IsFavorite: true, PurchasePrice: &purchase},
		{UserId: 2, GameId: 1, AddedDate: time.Date(2022, 6, 1, 9, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, db.Create(&rows).Error)
}

func seedUsers(t *testing.T, db *gorm.DB) {
	t.Helper()
	access := &model.Access{Id: 1, Name: "User"}
	require.NoError(t, db.Create(access).Error)

	users := []model.User{
		{Id: 1, Username: "user1", Email: "user1@example.com", PasswordHash: "h1", AccessId: 1, IsActive: true},
		{Id: 2, Username: "user2", Email: "user2@example.com", PasswordHash: "h2", AccessId: 1, IsActive: true},
	}
	require.NoError(t, db.Create(&users).Error)
}

func TestExportShape(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewTransferService(db)

	doc, err := svc.Export()
	require.NoError(t, err)
	require.Len(t, doc.Games, 2)
	require.Len(t, doc.Publishers, 1)

	alpha := doc.Games[0]
	require.Equal(t, "Alpha", *alpha.Title)
	require.Equal(t, "2020-05-01", *alpha.ReleaseDate)
	require.True(t, alpha.Price.Equal(decimal.NewFromFloat(59.90)))
	require.NotNil(t, alpha.Publisher)
	require.Equal(t, "Pub One", alpha.Publisher.Name)
	require.NotNil(t, alpha.AddedBy)
	require.Equal(t, "user2", alpha.AddedBy.Username)
	require.Len(t, alpha.Users, 2)
	owners := map[int]OwnershipRecord{}
	for _, own := range alpha.Users {
		owners[*own.UserId] = own
	}
	require.Equal(t, "2022-02-03 14:30:05", *owners[1].AddedDate)
	require.True(t, *owners[1].IsFavorite)
	require.NotNil(t, owners[1].PurchasePrice)
	require.Nil(t, owners[2].PurchasePrice)

	beta := doc.Games[1]
	require.Nil(t, beta.Description)
	require.Nil(t, beta.Genre)
	require.Nil(t, beta.AgeRating)
	require.Nil(t, beta.Publisher)
	require.Nil(t, beta.AddedBy)
	require.Nil(t, beta.UpdatedAt)
	require.Empty(t, beta.Users)

	publisher := doc.Publishers[0]
	require.Equal(t, "Pub One", *publisher.Name)
	require.Equal(t, "1999-03-15", *publisher.FoundedDate)
	require.Equal(t, "2024-01-02 10:30:00", *publisher.UpdatedAt)
	require.NotNil(t, publisher.CreatedBy)
	require.Equal(t, "user1", publisher.CreatedBy.Username)
	require.Equal(t, 1, publisher.GameCount)
	require.Equal(t, []string{"Alpha"}, publisher.GameTitles)
}

func TestExportOmitsNullFields(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewTransferService(db)

	doc, err := svc.Export()
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	games := raw["games"].([]any)
	beta := games[1].(map[string]any)
	for _, key := range []string{"description", "genre", "ageRating", "publisher", "addedBy", "updatedAt"} {
		require.NotContains(t, beta, key)
	}

	alpha := games[0].(map[string]any)
	require.Contains(t, alpha, "publisher")
	require.Contains(t, alpha, "addedBy")

	// Prices ride as JSON numbers.
	_, ok := alpha["price"].(float64)
	require.True(t, ok)
}

func TestRoundTrip(t *testing.T) {
	source := openTestDB(t)
	seedGraph(t, source)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, NewTransferService(source).ExportToFile(path))

	target := openTestDB(t)
	seedUsers(t, target)
	require.NoError(t, NewTransferService(target).ImportFromFile(path))

	publisher := &model.Publisher{}
	require.NoError(t, target.First(publisher, 1).Error)
	require.Equal(t, "Pub One", publisher.Name)
	require.Equal(t, "Oslo", *publisher.Location)
	require.Equal(t, "pub@example.com", *publisher.Email)
	require.Equal(t, "+47-555-0001", *publisher.Phone)
	require.Equal(t, "1999-03-15", publisher.FoundedDate.Format("2006-01-02"))
	require.Equal(t, fixtureCreatedAt.Unix(), publisher.CreatedAt.Unix())
	require.NotNil(t, publisher.UpdatedAt)
	require.NotNil(t, publisher.CreatedByUserId)
	require.Equal(t, 1, *publisher.CreatedByUserId)

	alpha := &model.Game{}
	require.NoError(t, target.Preload("Users").First(alpha, 1).Error)
	require.Equal(t, "Alpha", alpha.Title)
	require.Equal(t, "First game", *alpha.Description)
	require.Equal(t, "RPG", *alpha.Genre)
	require.True(t, alpha.Price.Equal(decimal.NewFromFloat(59.90)))
	require.Equal(t, "2020-05-01", alpha.ReleaseDate.Format("2006-01-02"))
	require.Equal(t, 18, *alpha.AgeRating)
	require.True(t, alpha.IsMultiplayer)
	require.NotNil(t, alpha.PublisherId)
	require.Equal(t, 1, *alpha.PublisherId)
	require.NotNil(t, alpha.AddedByUserId)
	require.Equal(t, 2, *alpha.AddedByUserId)
	require.Len(t, alpha.Users, 2)

	beta := &model.Game{}
	require.NoError(t, target.Preload("Users").First(beta, 2).Error)
	require.Nil(t, beta.Description)
	require.Nil(t, beta.PublisherId)
	require.Nil(t, beta.AddedByUserId)
	require.Empty(t, beta.Users)
}

func TestImportIdempotent(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewTransferService(db)

	doc, err := svc.Export()
	require.NoError(t, err)

	require.NoError(t, svc.Import(doc))
	require.NoError(t, svc.Import(doc))

	var games, publishers, rows int64
	require.NoError(t, db.Model(&model.Game{}).Count(&games).Error)
	require.NoError(t, db.Model(&model.Publisher{}).Count(&publishers).Error)
	require.NoError(t, db.Model(&model.UserGame{}).Count(&rows).Error)
	require.Equal(t, int64(2), games)
	require.Equal(t, int64(1), publishers)
	require.Equal(t, int64(2), rows)
}

func TestImportOverwritesScalars(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewTransferService(db)

	doc, err := svc.Export()
	require.NoError(t, err)

	doc.Games[0].Title = ptr("Alpha Remastered")
	doc.Games[0].Price = ptr(decimal.NewFromFloat(29.90))
	doc.Publishers[0].Name = ptr("Pub One Renamed")
	require.NoError(t, svc.Import(doc))

	game := &model.Game{}
	require.NoError(t, db.First(game, 1).Error)
	require.Equal(t, "Alpha Remastered", game.Title)
	require.True(t, game.Price.Equal(decimal.NewFromFloat(29.90)))

	publisher := &model.Publisher{}
	require.NoError(t, db.First(publisher, 1).Error)
	require.Equal(t, "Pub One Renamed", publisher.Name)
}

func TestImportDanglingReferences(t *testing.T) {
	db := openTestDB(t)
	svc := NewTransferService(db)

	now := time.Now().UTC()
	doc := &ExportDocument{
		ExportDate: now,
		Publishers: []PublisherRecord{{
			Id:          ptr(7),
			Name:        ptr("Ghost Pub"),
			FoundedDate: ptr("2000-01-01"),
			CreatedAt:   ptr(now),
			CreatedBy:   &UserSummary{Id: 999, Username: "gone"},
		}},
		Games: []GameRecord{{
			Id:            ptr(7),
			Title:         ptr("Ghost Game"),
			Price:         ptr(decimal.NewFromInt(5)),
			ReleaseDate:   ptr("2001-02-03"),
			IsMultiplayer: ptr(false),
			CreatedAt:     ptr(now),
			Publisher:     &PublisherSummary{Id: 12345, Name: "missing"},
			AddedBy:       &UserSummary{Id: 999},
			Users: []OwnershipRecord{{
				UserId:     ptr(999),
				AddedDate:  ptr("2020-01-01 00:00:00"),
				IsFavorite: ptr(true),
			}},
		}},
	}

	require.NoError(t, svc.Import(doc))

	publisher := &model.Publisher{}
	require.NoError(t, db.First(publisher, 7).Error)
	require.Nil(t, publisher.CreatedByUserId)

	game := &model.Game{}
	require.NoError(t, db.Preload("Users").First(game, 7).Error)
	require.Nil(t, game.PublisherId)
	require.Nil(t, game.AddedByUserId)
	require.Empty(t, game.Users)
}

func TestImportMalformedAbortsSecondPhase(t *testing.T) {
	db := openTestDB(t)
	svc := NewTransferService(db)

	now := time.Now().UTC()
	doc := &ExportDocument{
		ExportDate: now,
		Publishers: []PublisherRecord{{
			Id:          ptr(8),
			Name:        ptr("Kept Pub"),
			FoundedDate: ptr("1980-12-31"),
			CreatedAt:   ptr(now),
		}},
		Games: []GameRecord{{
			Id: ptr(8),
			// title missing
			Price:         ptr(decimal.NewFromInt(1)),
			ReleaseDate:   ptr("2001-02-03"),
			IsMultiplayer: ptr(false),
			CreatedAt:     ptr(now),
		}},
	}

	require.Error(t, svc.Import(doc))

	// Phase one commits stay.
	publisher := &model.Publisher{}
	require.NoError(t, db.First(publisher, 8).Error)

	var games int64
	require.NoError(t, db.Model(&model.Game{}).Count(&games).Error)
	require.Zero(t, games)
}

func TestImportUnparsableDate(t *testing.T) {
	db := openTestDB(t)
	svc := NewTransferService(db)

	now := time.Now().UTC()
	doc := &ExportDocument{
		ExportDate: now,
		Publishers: []PublisherRecord{{
			Id:          ptr(9),
			Name:        ptr("Bad Date Pub"),
			FoundedDate: ptr("31/12/1980"),
			CreatedAt:   ptr(now),
		}},
	}
	require.Error(t, svc.Import(doc))

	var publishers int64
	require.NoError(t, db.Model(&model.Publisher{}).Count(&publishers).Error)
	require.Zero(t, publishers)
}

func TestImportReplacesOwnershipRows(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewTransferService(db)

	doc, err := svc.Export()
	require.NoError(t, err)

	// Keep only user2's row for Alpha.
	kept := make([]OwnershipRecord, 0, 1)
	for _, own := range doc.Games[0].Users {
		if *own.UserId == 2 {
			kept = append(kept, own)
		}
	}
	doc.Games[0].Users = kept
	require.NoError(t, svc.Import(doc))

	game := &model.Game{}
	require.NoError(t, db.Preload("Users").First(game, 1).Error)
	require.Len(t, game.Users, 1)
	require.Equal(t, 2, game.Users[0].UserId)
}
