package utils

import (
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tabletop-club/table-scheduler/internal/domain"
)

var firstNames = []string{
	"Alex", "Bailey", "Casey", "Dana", "Ellis", "Frankie", "Gray", "Harper",
	"Indy", "Jordan", "Kendall", "Logan", "Morgan", "Nico", "Parker", "Quinn",
	"Reese", "Sage", "Taylor", "Val",
}

var lastNames = []string{
	"Adams", "Baker", "Carter", "Diaz", "Evans", "Foster", "Garcia", "Hayes",
	"Irwin", "Jensen", "Kim", "Lopez", "Mercer", "Nguyen", "Ortiz", "Price",
	"Reyes", "Stone", "Turner", "Walsh",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	username := strings.Join(parts, ".")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomMentionID produces an 18-digit chat platform user id, the
// shape the mention tokens in schedule text carry.
func GenerateRandomMentionID() string {
	id := string(digits[rand.Intn(9)+1])
	for i := 1; i < 18; i++ {
		id += string(digits[rand.Intn(len(digits))])
	}
	return id
}

func GenerateRandomMember(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		MentionID:    GenerateRandomMentionID(),
		Role:         domain.RoleMember,
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
