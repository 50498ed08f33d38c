package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

var firstNames = []string{
	"Alex", "Bailey", "Casey", "Devon", "Emery", "Finley", "Harper", "Jordan",
	"Kendall", "Logan", "Morgan", "Parker", "Quinn", "Reese", "Rowan", "Sage",
	"Skyler", "Taylor", "Avery", "Blake", "Cameron", "Dakota", "Elliot", "Hayden",
}

var lastNames = []string{
	"Adams", "Bennett", "Carter", "Diaz", "Edwards", "Foster", "Garcia", "Hughes",
	"Iverson", "Jensen", "Keller", "Lopez", "Mitchell", "Nguyen", "Ortiz", "Patel",
	"Quintero", "Reyes", "Sanders", "Torres", "Underwood", "Vargas", "Walsh", "Young",
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.Intn(len(letters))]
	}
	return string(password)
}

// GenerateRandomUser builds a plausible student account for seeding. The
// email is derived from the name plus a random suffix to dodge collisions.
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	first := firstNames[rand.Intn(len(firstNames))]
	last := lastNames[rand.Intn(len(lastNames))]

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	local := fmt.Sprintf("%s.%s%03d", strings.ToLower(first), strings.ToLower(last), rand.Intn(1000))

	return &domain.User{
		Email:           local + "@" + emailDomainName,
		PasswordHash:    string(passwordHash),
		FirstName:       first,
		LastName:        last,
		Role:            domain.RoleStudent,
		MaxHoursPerWeek: float64(rand.Intn(11) + 10), // 10..20
		IsActive:        true,
	}, nil
}

// GenerateRandomAvailability produces a few availability slots per week on
// whole-hour boundaries inside the working day.
func GenerateRandomAvailability(userID int64, dayStart, dayEnd int) []domain.AvailabilitySlot {
	slots := []domain.AvailabilitySlot{}
	for _, day := range domain.WorkWeek {
		if rand.Intn(3) == 0 {
			continue
		}
		span := dayEnd - dayStart
		start := dayStart + rand.Intn(span-2)
		length := rand.Intn(4) + 2
		end := start + length
		if end > dayEnd {
			end = dayEnd
		}
		slots = append(slots, domain.AvailabilitySlot{
			UserID:      userID,
			DayOfWeek:   day,
			StartTime:   domain.ClockTime(start),
			EndTime:     domain.ClockTime(end),
			IsRecurring: true,
		})
	}
	return slots
}
