package service

import (
	"os"
	"time"

	"steamlib/database"
	"steamlib/database/model"
	"steamlib/logger"
	"steamlib/util/common"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Export documents carry prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ExportDocument is the on-disk shape of a library export. Optional fields
// are pointers and omitted when nil; the importer checks presence on the
// required ones explicitly.
type ExportDocument struct {
	ExportDate time.Time         `json:"exportDate"`
	Games      []GameRecord      `json:"games"`
	Publishers []PublisherRecord `json:"publishers"`
}

type GameRecord struct {
	Id            *int              `json:"id"`
	Title         *string           `json:"title"`
	Description   *string           `json:"description,omitempty"`
	Genre         *string           `json:"genre,omitempty"`
	Price         *decimal.Decimal  `json:"price"`
	ReleaseDate   *string           `json:"releaseDate"`
	AgeRating     *int              `json:"ageRating,omitempty"`
	IsMultiplayer *bool             `json:"isMultiplayer"`
	Publisher     *PublisherSummary `json:"publisher,omitempty"`
	AddedBy       *UserSummary      `json:"addedBy,omitempty"`
	Users         []OwnershipRecord `json:"users"`
	CreatedAt     *time.Time        `json:"createdAt"`
	UpdatedAt     *string           `json:"updatedAt,omitempty"`
}

type PublisherRecord struct {
	Id          *int         `json:"id"`
	Name        *string      `json:"name"`
	Location    *string      `json:"location,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	FoundedDate *string      `json:"foundedDate"`
	CreatedBy   *UserSummary `json:"createdBy,omitempty"`
	GameCount   int          `json:"gameCount"`
	GameTitles  []string     `json:"gameTitles"`
	CreatedAt   *time.Time   `json:"createdAt"`
	UpdatedAt   *string      `json:"updatedAt,omitempty"`
}

type PublisherSummary struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Location *string `json:"location,omitempty"`
}

type UserSummary struct {
	Id       int    `json:"id"`
	Username string `json:"userName"`
	Email    string `json:"email"`
}

type OwnershipRecord struct {
	UserId        *int             `json:"userId"`
	Username      *string          `json:"userName,omitempty"`
	AddedDate     *string          `json:"addedDate"`
	IsFavorite    *bool            `json:"isFavorite"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
}

type TransferService struct {
	db *gorm.DB
}

func NewTransferService(db *gorm.DB) *TransferService {
	return &TransferService{db: db}
}

// visitSet tracks entities already emitted during export traversal so a
// cycle in the loaded graph is broken instead of re-serialized.
type visitSet map[visitKey]bool

type visitKey struct {
	kind string
	a, b int
}

// visit marks the entity and reports whether this is its first visit.
func (v visitSet) visit(kind string, a, b int) bool {
	key := visitKey{kind: kind, a: a, b: b}
	if v[key] {
		return false
	}
	v[key] = true
	return true
}

// Export builds the full export document: every game and publisher with
// nested reference summaries and ownership rows.
func (s *TransferService) Export() (*ExportDocument, error) {
	var games []model.Game
	err := s.db.
		Preload("Publisher").
		Preload("AddedByUser").
		Preload("Users").
		Preload("Users.User").
		Order("id asc").
		Find(&games).Error
	if err != nil {
		return nil, err
	}

	var publishers []model.Publisher
	err = s.db.
		Preload("CreatedByUser").
		Preload("Games").
		Order("id asc").
		Find(&publishers).Error
	if err != nil {
		return nil, err
	}

	seen := visitSet{}
	doc := &ExportDocument{
		ExportDate: time.Now().UTC(),
		Games:      make([]GameRecord, 0, len(games)),
		Publishers: make([]PublisherRecord, 0, len(publishers)),
	}

	for i := range games {
		if !seen.visit("game", games[i].Id, 0) {
			continue
		}
		doc.Games = append(doc.Games, gameRecord(&games[i], seen))
	}
	for i := range publishers {
		if !seen.visit("publisher", publishers[i].Id, 0) {
			continue
		}
		doc.Publishers = append(doc.Publishers, publisherRecord(&publishers[i]))
	}

	return doc, nil
}

func gameRecord(g *model.Game, seen visitSet) GameRecord {
	rec := GameRecord{
		Id:            &g.Id,
		Title:         &g.Title,
		Description:   g.Description,
		Genre:         g.Genre,
		Price:         &g.Price,
		ReleaseDate:   ptr(g.ReleaseDate.Format(dateLayout)),
		AgeRating:     g.AgeRating,
		IsMultiplayer: &g.IsMultiplayer,
		Users:         make([]OwnershipRecord, 0, len(g.Users)),
		CreatedAt:     &g.CreatedAt,
	}
	if g.UpdatedAt != nil {
		rec.UpdatedAt = ptr(g.UpdatedAt.Format(dateTimeLayout))
	}
	if g.Publisher != nil {
		rec.Publisher = &PublisherSummary{
			Id:       g.Publisher.Id,
			Name:     g.Publisher.Name,
			Location: g.Publisher.Location,
		}
	}
	if g.AddedByUser != nil {
		rec.AddedBy = &UserSummary{
			Id:       g.AddedByUser.Id,
			Username: g.AddedByUser.Username,
			Email:    g.AddedByUser.Email,
		}
	}
	for _, ug := range g.Users {
		if !seen.visit("ownership", ug.UserId, ug.GameId) {
			continue
		}
		own := OwnershipRecord{
			UserId:        ptr(ug.UserId),
			AddedDate:     ptr(ug.AddedDate.Format(dateTimeLayout)),
			IsFavorite:    ptr(ug.IsFavorite),
			PurchasePrice: ug.PurchasePrice,
		}
		if ug.User.Id != 0 {
			own.Username = ptr(ug.User.Username)
		}
		rec.Users = append(rec.Users, own)
	}
	return rec
}

func publisherRecord(p *model.Publisher) PublisherRecord {
	rec := PublisherRecord{
		Id:          &p.Id,
		Name:        &p.Name,
		Location:    p.Location,
		Email:       p.Email,
		Phone:       p.Phone,
		FoundedDate: ptr(p.FoundedDate.Format(dateLayout)),
		GameCount:   len(p.Games),
		GameTitles:  make([]string, 0, len(p.Games)),
		CreatedAt:   &p.CreatedAt,
	}
	if p.UpdatedAt != nil {
		rec.UpdatedAt = ptr(p.UpdatedAt.Format(dateTimeLayout))
	}
	if p.CreatedByUser != nil {
		rec.CreatedBy = &UserSummary{
			Id:       p.CreatedByUser.Id,
			Username: p.CreatedByUser.Username,
			Email:    p.CreatedByUser.Email,
		}
	}
	for _, game := range p.Games {
		rec.GameTitles = append(rec.GameTitles, game.Title)
	}
	return rec
}

// ExportToFile writes the export document to path as indented UTF-8 JSON.
func (s *TransferService) ExportToFile(path string) error {
	doc, err := s.Export()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Infof("exported %d games and %d publishers to %s", len(doc.Games), len(doc.Publishers), path)
	return nil
}

// ImportFromFile reads an export document from path and applies it.
func (s *TransferService) ImportFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc := &ExportDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return common.NewErrorf("parse import document: %v", err)
	}
	return s.Import(doc)
}

// Import upserts the document into the store in two phases: publishers
// first, then games, so game-to-publisher references resolve against
// committed rows. The phases are separate transactions; a failure in the
// second leaves the first committed.
func (s *TransferService) Import(doc *ExportDocument) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range doc.Publishers {
			if err := importPublisher(tx, &doc.Publishers[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range doc.Games {
			if err := importGame(tx, &doc.Games[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Infof("imported %d publishers and %d games", len(doc.Publishers), len(doc.Games))
	return nil
}

func importPublisher(tx *gorm.DB, rec *PublisherRecord) error {
	if rec.Id == nil || rec.Name == nil || rec.FoundedDate == nil || rec.CreatedAt == nil {
		return common.NewError("publisher record missing required field")
	}

	founded, err := time.Parse(dateLayout, *rec.FoundedDate)
	if err != nil {
		return common.NewErrorf("publisher %d: invalid foundedDate %q", *rec.Id, *rec.FoundedDate)
	}

	publisher := &model.Publisher{}
	created := false
	err = tx.First(publisher, *rec.Id).Error
	if database.IsNotFound(err) {
		publisher = &model.Publisher{Id: *rec.Id}
		created = true
	} else if err != nil {
		return err
	}

	publisher.Name = *rec.Name
	publisher.Location = rec.Location
	publisher.Email = rec.Email
	publisher.Phone = rec.Phone
	publisher.FoundedDate = founded
	publisher.CreatedAt = *rec.CreatedAt

	publisher.UpdatedAt = nil
	if rec.UpdatedAt != nil {
		updated, err := time.Parse(dateTimeLayout, *rec.UpdatedAt)
		if err != nil {
			return common.NewErrorf("publisher %d: invalid updatedAt %q", *rec.Id, *rec.UpdatedAt)
		}
		publisher.UpdatedAt = &updated
	}

	publisher.CreatedByUserId = nil
	if rec.CreatedBy != nil {
		id, err := resolveUser(tx, rec.CreatedBy.Id)
		if err != nil {
			return err
		}
		publisher.CreatedByUserId = id
	}

	if created {
		return tx.Create(publisher).Error
	}
	return tx.Save(publisher).Error
}

func importGame(tx *gorm.DB, rec *GameRecord) error {
	if rec.Id == nil || rec.Title == nil || rec.Price == nil ||
		rec.ReleaseDate == nil || rec.IsMultiplayer == nil || rec.CreatedAt == nil {
		return common.NewError("game record missing required field")
	}

	released, err := time.Parse(dateLayout, *rec.ReleaseDate)
	if err != nil {
		return common.NewErrorf("game %d: invalid releaseDate %q", *rec.Id, *rec.ReleaseDate)
	}

	game := &model.Game{}
	created := false
	err = tx.First(game, *rec.Id).Error
	if database.IsNotFound(err) {
		game = &model.Game{Id: *rec.Id}
		created = true
	} else if err != nil {
		return err
	}

	game.Title = *rec.Title
	game.Description = rec.Description
	game.Genre = rec.Genre
	game.Price = *rec.Price
	game.ReleaseDate = released
	game.AgeRating = rec.AgeRating
	game.IsMultiplayer = *rec.IsMultiplayer
	game.CreatedAt = *rec.CreatedAt

	game.UpdatedAt = nil
	if rec.UpdatedAt != nil {
		updated, err := time.Parse(dateTimeLayout, *rec.UpdatedAt)
		if err != nil {
			return common.NewErrorf("game %d: invalid updatedAt %q", *rec.Id, *rec.UpdatedAt)
		}
		game.UpdatedAt = &updated
	}

	game.PublisherId = nil
	if rec.Publisher != nil {
		publisher := &model.Publisher{}
		err := tx.First(publisher, rec.Publisher.Id).Error
		if err == nil {
			game.PublisherId = &publisher.Id
		} else if !database.IsNotFound(err) {
			return err
		}
	}

	game.AddedByUserId = nil
	if rec.AddedBy != nil {
		id, err := resolveUser(tx, rec.AddedBy.Id)
		if err != nil {
			return err
		}
		game.AddedByUserId = id
	}

	if created {
		if err := tx.Create(game).Error; err != nil {
			return err
		}
	} else if err := tx.Save(game).Error; err != nil {
		return err
	}

	// Ownership rows are replaced wholesale from the document.
	if err := tx.Where("game_id = ?", game.Id).Delete(&model.UserGame{}).Error; err != nil {
		return err
	}
	for _, own := range rec.Users {
		if own.UserId == nil || own.AddedDate == nil || own.IsFavorite == nil {
			return common.NewErrorf("game %d: ownership entry missing required field", game.Id)
		}
		added, err := time.Parse(dateTimeLayout, *own.AddedDate)
		if err != nil {
			return common.NewErrorf("game %d: invalid addedDate %q", game.Id, *own.AddedDate)
		}
		ownerId, err := resolveUser(tx, *own.UserId)
		if err != nil {
			return err
		}
		if ownerId == nil {
			logger.Warningf("game %d: owner %d not found, skipping ownership row", game.Id, *own.UserId)
			continue
		}
		row := &model.UserGame{
			UserId:        *ownerId,
			GameId:        game.Id,
			AddedDate:     added,
			IsFavorite:    *own.IsFavorite,
			PurchasePrice: own.PurchasePrice,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// resolveUser looks up a referenced user by id. Dangling references yield
// nil rather than aborting the import.
func resolveUser(tx *gorm.DB, id int) (*int, error) {
	user := &model.User{}
	err := tx.First(user, id).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user.Id, nil
}

func ptr[T any](v T) *T {
	return &v
}
