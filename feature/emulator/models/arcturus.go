package models

// ArcturusUser is the subset of Arcturus' users table the roster reads.
type ArcturusUser struct {
	ID       int    `gorm:"primaryKey;column:id"`
	Username string `gorm:"column:username;type:varchar(25)"`
	Online   string `gorm:"column:online;type:enum('0','1','2');default:0"` // '2' is invisible
	Rank     int    `gorm:"column:rank;default:1"`
	Look     string `gorm:"column:look;type:varchar(256)"`
}

func (ArcturusUser) TableName() string {
	return "users"
}
