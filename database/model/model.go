package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Access is a role assigned to users (Administrator, User, Guest).
// Deleting an access that is still referenced is rejected by the store.
type Access struct {
	Id   int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:50;uniqueIndex;not null"`

	Users []User `json:"-" gorm:"foreignKey:AccessId;constraint:OnDelete:RESTRICT"`
}

type User struct {
	Id           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"userName" gorm:"size:100;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:256;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt"`

	AccessId int    `json:"-" gorm:"not null"`
	Access   Access `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	// Ownership rows are removed with the user; games and publishers the
	// user contributed survive with the reference nulled.
	Games             []UserGame  `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	AddedGames        []Game      `json:"-" gorm:"foreignKey:AddedByUserId;constraint:OnDelete:SET NULL"`
	CreatedPublishers []Publisher `json:"-" gorm:"foreignKey:CreatedByUserId;constraint:OnDelete:SET NULL"`
}

type Publisher struct {
	Id          int        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string     `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Location    *string    `json:"location,omitempty" gorm:"size:200"`
	Email       *string    `json:"email,omitempty" gorm:"size:100"`
	Phone       *string    `json:"phone,omitempty" gorm:"size:20"`
	FoundedDate time.Time  `json:"foundedDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`

	CreatedByUserId *int  `json:"-"`
	CreatedByUser   *User `json:"-" gorm:"constraint:OnDelete:SET NULL"`

	Games []Game `json:"-" gorm:"foreignKey:PublisherId;constraint:OnDelete:RESTRICT"`
}

type Game struct {
	Id            int             `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string          `json:"title" gorm:"size:100;index;not null"`
	Description   *string         `json:"description,omitempty" gorm:"size:500"`
	Genre         *string         `json:"genre,omitempty" gorm:"size:50"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(18,2)"`
	ReleaseDate   time.Time       `json:"releaseDate"`
	AgeRating     *int            `json:"ageRating,omitempty"`
	IsMultiplayer bool            `json:"isMultiplayer"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`

	PublisherId *int       `json:"-"`
	Publisher   *Publisher `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	AddedByUserId *int  `json:"-"`
	AddedByUser   *User `json:"-" gorm:"constraint:OnDelete:SET NULL"`

	Users []UserGame `json:"-" gorm:"foreignKey:GameId;constraint:OnDelete:CASCADE"`
}

// UserGame links a user to a game they own. Composite key; rows never
// outlive either side of the relation.
type UserGame struct {
	UserId int  `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	User   User `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	GameId int  `json:"gameId" gorm:"primaryKey;autoIncrement:false"`
	Game   Game `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	AddedDate     time.Time        `json:"addedDate"`
	IsFavorite    bool             `json:"isFavorite"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty" gorm:"type:decimal(18,2)"`
}
