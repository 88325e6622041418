package model

type ClubType string

const (
	ClubAcademic      ClubType = "ACADEMIC"
	ClubSports        ClubType = "SPORTS"
	ClubArts          ClubType = "ARTS"
	ClubVolunteer     ClubType = "VOLUNTEER"
	ClubTech          ClubType = "TECH"
	ClubEntertainment ClubType = "ENTERTAINMENT"
	ClubOther         ClubType = "OTHER"
)

func (t ClubType) Valid() bool {
	switch t {
	case ClubAcademic, ClubSports, ClubArts, ClubVolunteer, ClubTech, ClubEntertainment, ClubOther:
		return true
	}
	return false
}

type Club struct {
	Model
	Name        string   `gorm:"type:varchar(100);index;not null" json:"name"`
	Type        ClubType `gorm:"type:varchar(20);not null" json:"type"`
	Description string   `gorm:"type:text" json:"description"`
	CoverImage  string   `gorm:"type:varchar(255)" json:"coverImage"`
	Materials   string   `gorm:"type:varchar(255)" json:"materials"`
	LeaderID    uint     `gorm:"index;not null" json:"leaderId"`
	Status      Status   `gorm:"type:varchar(10);index;default:PENDING;not null" json:"status"`
	Leader      *User    `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
}
