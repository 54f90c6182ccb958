package models

import (
	"fmt"
	"time"
)

// Statistics is a read-only snapshot computed by the service on every fetch
type Statistics struct {
	TotalEntries int             `json:"totalDiaries"`
	Monthly      []MonthlyCount  `json:"monthlyStatistics"`
	Words        []WordFrequency `json:"wordFrequencies"`
}

type MonthlyCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// Label renders the month as "2024-05"
func (m MonthlyCount) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

func (m MonthlyCount) MonthName() string {
	if m.Month < 1 || m.Month > 12 {
		return m.Label()
	}
	return fmt.Sprintf("%s %d", time.Month(m.Month).String()[:3], m.Year)
}

type WordFrequency struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

// TopWords returns at most n words in the order the service ranked them
func (s Statistics) TopWords(n int) []WordFrequency {
	if n <= 0 || n >= len(s.Words) {
		return s.Words
	}
	return s.Words[:n]
}

// MaxMonthly returns the largest monthly count, for scaling charts
func (s Statistics) MaxMonthly() int {
	max := 0
	for _, m := range s.Monthly {
		if m.Count > max {
			max = m.Count
		}
	}
	return max
}
