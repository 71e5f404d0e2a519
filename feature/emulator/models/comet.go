package models

// CometPlayer is the subset of Comet's players table the roster reads.
type CometPlayer struct {
	ID       int    `gorm:"primaryKey;column:id"`
	Username string `gorm:"column:username;type:varchar(100)"`
	Online   string `gorm:"column:online;type:enum('0','1');default:0"`
	Rank     int    `gorm:"column:rank;default:1"`
	Figure   string `gorm:"column:figure;type:varchar(255)"`
}

func (CometPlayer) TableName() string {
	return "players"
}
