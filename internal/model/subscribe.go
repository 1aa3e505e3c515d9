package model

import "time"

// Subscribe is a directed follow from User to Author.
type Subscribe struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_subscribe_user_author;check:chk_subscribe_no_self,user_id <> author_id"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_subscribe_user_author;index"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
