package utils

import (
	"testing"
	"time"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestDaysBetweenInclusive(t *testing.T) {
	if got := DaysBetween(day("2024-06-10"), day("2024-06-10")); got != 1 {
		t.Fatalf("same day must count 1, got %d", got)
	}
	if got := DaysBetween(day("2024-06-10"), day("2024-06-12")); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	// Високосный февраль целиком
	if got := DaysBetween(day("2024-02-01"), day("2024-02-29")); got != 29 {
		t.Fatalf("leap february must count 29, got %d", got)
	}
	if got := DaysBetween(day("2024-12-30"), day("2025-01-02")); got != 4 {
		t.Fatalf("year boundary must count 4, got %d", got)
	}
}

func TestDaysBetweenInvertedRange(t *testing.T) {
	if got := DaysBetween(day("2024-06-12"), day("2024-06-10")); got != 0 {
		t.Fatalf("inverted range must count 0, got %d", got)
	}
}

func TestDaysBetweenAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	// 2024-03-31 - переход на летнее время, сутки длятся 23 часа
	start := time.Date(2024, 3, 30, 0, 0, 0, 0, loc)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, loc)
	if got := DaysBetween(start, end); got != 3 {
		t.Fatalf("short DST day must still count, got %d", got)
	}

	// 2024-10-27 - переход на зимнее время, сутки длятся 25 часов
	start = time.Date(2024, 10, 26, 0, 0, 0, 0, loc)
	end = time.Date(2024, 10, 28, 0, 0, 0, 0, loc)
	if got := DaysBetween(start, end); got != 3 {
		t.Fatalf("long DST day must still count, got %d", got)
	}
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 6, 11, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(start, end); got != 2 {
		t.Fatalf("adjacent calendar days must count 2, got %d", got)
	}
}
