package models

// PresenceLink maps an emulator user to a Discord account. The table is owned
// by presence-sync and created on startup when linking is enabled.
type PresenceLink struct {
	UserID         int    `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	DiscordID      string `gorm:"column:discord_id;type:varchar(32);not null;index"`
	UseDiscordName bool   `gorm:"column:use_discord_name;type:tinyint(1);default:0"`
}

func (PresenceLink) TableName() string {
	return "presence_links"
}

// UserModel returns the roster model for an emulator, or nil if unknown.
func UserModel(emulator string) any {
	switch emulator {
	case "arcturus":
		return ArcturusUser{}
	case "plus":
		return PlusUser{}
	case "comet":
		return CometPlayer{}
	default:
		return nil
	}
}

// UserTable returns the table holding an emulator's users.
func UserTable(emulator string) string {
	if tabler, ok := UserModel(emulator).(interface{ TableName() string }); ok {
		return tabler.TableName()
	}
	return ""
}
