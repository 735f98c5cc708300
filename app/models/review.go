package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)

// Review is one customer's rating of a product. The reviewer is the
// logged-in user or the anonymous session, matching Cart ownership;
// each reviewer gets one review per product (unique indexes below).
// IsVerifiedPurchase is set at creation time when the reviewer's cart
// has a confirmed order containing the product.
type Review struct {
	ID                 string   `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID          string   `gorm:"size:36;not null;index;uniqueIndex:idx_review_user;uniqueIndex:idx_review_session" json:"product_id"`
	Product            *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	UserID             *string  `gorm:"size:36;uniqueIndex:idx_review_user"`
	User               *User    `gorm:"foreignKey:UserID"`
	SessionKey         *string  `gorm:"size:40;uniqueIndex:idx_review_session"`
	ReviewerName       string   `gorm:"size:100;not null" json:"reviewer_name"`
	Rating             int      `gorm:"not null" json:"rating"`
	Title              string   `gorm:"size:100;not null" json:"title"`
	Comment            string   `gorm:"type:text;not null" json:"comment"`
	IsVerifiedPurchase bool     `gorm:"default:false" json:"is_verified_purchase"`
	IsApproved         bool     `gorm:"default:true" json:"is_approved"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (rv *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if rv.ID == "" {
		rv.ID = uuid.New().String()
	}
	return
}
