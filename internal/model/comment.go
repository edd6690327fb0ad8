package model

import "time"

// Comment is append-only. LeadID is not checked against existing leads.
type Comment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	LeadID      string    `json:"leadId" gorm:"type:varchar(36);index"`
	CommentText string    `json:"comment_text" gorm:"type:text"`
	Timestamp   time.Time `json:"timestamp" gorm:"<-:create;index"`
	User        string    `json:"user"`
}
