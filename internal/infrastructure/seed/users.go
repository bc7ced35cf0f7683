package seed

import (
	"fmt"
	"time"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/pkg/helpers"
)

// DefaultPassword is the secret shared by every fixture identity.
const DefaultPassword = "password123"

// DefaultAvatar is assigned to newly registered identities.
const DefaultAvatar = "https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg?auto=compress&cs=tinysrgb&w=200"

func avatar(photo int) string {
	return fmt.Sprintf("https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg?auto=compress&cs=tinysrgb&w=200", photo, photo)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var fixtureUsers = []entity.User{
	{ID: "1", Name: "Alex Johnson", Email: "alex@example.com", Avatar: avatar(220453), CreatedAt: day(2023, time.January, 15)},
	{ID: "2", Name: "Samantha Chen", Email: "samantha@example.com", Avatar: avatar(415829), CreatedAt: day(2023, time.February, 20)},
	{ID: "3", Name: "Miguel Rodriguez", Email: "miguel@example.com", Avatar: avatar(2379004), CreatedAt: day(2023, time.March, 10)},
	{ID: "4", Name: "Ava Williams", Email: "ava@example.com", Avatar: avatar(1239291), CreatedAt: day(2023, time.April, 5)},
	{ID: "5", Name: "Jake Thompson", Email: "jake@example.com", Avatar: avatar(3785079), CreatedAt: day(2023, time.May, 12)},
}

// Users returns the fixture identity universe with DefaultPassword hashed at
// the given bcrypt cost.
func Users(cost int) ([]entity.CredentialUser, error) {
	out := make([]entity.CredentialUser, 0, len(fixtureUsers))
	for _, u := range fixtureUsers {
		hash, err := helpers.HashPasswordCost(DefaultPassword, cost)
		if err != nil {
			return nil, fmt.Errorf("hash fixture password for %s: %w", u.Email, err)
		}
		out = append(out, entity.CredentialUser{User: u, PasswordHash: hash})
	}
	return out, nil
}

// Profiles returns the sanitized fixture identities.
func Profiles() []entity.User {
	return append([]entity.User(nil), fixtureUsers...)
}
