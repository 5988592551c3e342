package utils

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the URL-safe set short ids are drawn from.
const Alphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var ErrNonPositiveLength = errors.New("id length must be positive")

// GenerateID returns n symbols of Alphabet picked uniformly from crypto/rand.
func GenerateID(n int) (string, error) {
	if n <= 0 {
		return "", ErrNonPositiveLength
	}

	id, err := gonanoid.Generate(Alphabet, n)
	if err != nil {
		return "", fmt.Errorf("random id generator error: %w", err)
	}

	return id, nil
}
