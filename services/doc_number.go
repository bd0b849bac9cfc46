package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"buildsales/pricing"
)

// attemptsPerWidth is how many random suffixes are tried before the suffix
// gains a digit.
const attemptsPerWidth = 25

// ErrNumberExhausted is returned when no free document number was found.
var ErrNumberExhausted = errors.New("no free document number")

// GenerateDocumentNumber returns a "{prefix}-{year}-{NNN}" number that is not
// yet used in collection.field. The suffix is random; after repeated
// collisions it widens to 4 and then 5 digits. The unique index on field
// remains the final guard against races.
func GenerateDocumentNumber(app core.App, collection, field, prefix string, now time.Time) (string, error) {
	for digits := 3; digits <= 5; digits++ {
		limit := pow10(digits)
		for range attemptsPerWidth {
			number := pricing.DocumentNumber(prefix, now.Year(), rand.IntN(limit), digits)
			taken, err := numberTaken(app, collection, field, number)
			if err != nil {
				return "", err
			}
			if !taken {
				return number, nil
			}
		}
	}
	return "", fmt.Errorf("%w for %s-%d", ErrNumberExhausted, prefix, now.Year())
}

func numberTaken(app core.App, collection, field, number string) (bool, error) {
	_, err := app.FindFirstRecordByData(collection, field, number)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check document number %s: %w", number, err)
}

func pow10(n int) int {
	v := 1
	for range n {
		v *= 10
	}
	return v
}
