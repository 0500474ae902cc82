package auth

import (
	"fmt"
	"math/rand/v2"
)

var usernameAdjectives = []string{
	"Happy", "Lucky", "Sunny", "Cool", "Epic", "Swift", "Brave", "Noble",
	"Royal", "Rapid", "Wild", "Bold", "Wise", "Pure", "Free", "Elite",
}

var usernameNouns = []string{
	"Panda", "Tiger", "Eagle", "Wolf", "Lion", "Bear", "Hawk", "Fox",
	"Dragon", "Phoenix", "Falcon", "Raven", "Shark", "Cobra", "Viper",
}

// GenerateUsername собирает случайный username вида HappyPanda1234
// Уникальность best-effort: коллизия username не нарушает инвариантов,
// уникальным обязан быть только email
func GenerateUsername() string {
	adjective := usernameAdjectives[rand.IntN(len(usernameAdjectives))]
	noun := usernameNouns[rand.IntN(len(usernameNouns))]
	return fmt.Sprintf("%s%s%d", adjective, noun, rand.IntN(10000))
}
