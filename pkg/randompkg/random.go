// Package randompkg provides functionality for generating random account data in tests.
package randompkg

import (
	"crypto/rand"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// FloatBetween generates a random decimal number between min and max rounded to 2 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*100) / 100
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// AccountID generates a random Akahu style account id.
func AccountID() string {
	return "acc_" + String(24)
}

// ConnectionName generates a random bank name.
func ConnectionName() string {
	banks := []string{"ANZ", "ASB", "BNZ", "Kiwibank", "Westpac"}
	return banks[Intn(len(banks))]
}

// NameOf generates a random account name with the given prefix.
func NameOf(prefix string) string {
	return prefix + " " + String(6)
}

// MoneyAmountBetween generates a random amount of money between min and max rounded to 2 decimals.
func MoneyAmountBetween(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(FloatBetween(min, max))
}

// InterestRate generates a random interest rate percentage between 1 and 9.
func InterestRate() decimal.Decimal {
	return MoneyAmountBetween(1, 9)
}
