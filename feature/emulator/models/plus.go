package models

// PlusUser is the subset of Plus' users table the roster reads.
type PlusUser struct {
	ID       int    `gorm:"primaryKey;column:id"`
	Username string `gorm:"column:username;type:varchar(50)"`
	Online   string `gorm:"column:online;type:enum('0','1');default:0"`
	Rank     int    `gorm:"column:rank;default:1"`
	Look     string `gorm:"column:look;type:varchar(255)"`
}

func (PlusUser) TableName() string {
	return "users"
}
