package service

import (
	"math"
	"testing"
	"time"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
)

func finishedItem(standard, actual float64, diameter *float64) model.WorkItemEvent {
	return model.WorkItemEvent{StandardTime: standard, ActualTime: &actual, Diameter: diameter}
}

func TestAvailabilityRatio(t *testing.T) {
	tests := []struct {
		name             string
		hours, stoppages float64
		want             float64
	}{
		{"two hours lost of eight", 8, 2, 0.75},
		{"no stoppages", 8, 0, 1},
		{"stoppages exceed plan", 8, 10, 0},
		{"no planned hours", 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := availabilityRatio(tt.hours, tt.stoppages); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPerformanceRatio(t *testing.T) {
	items := []model.WorkItemEvent{
		finishedItem(10, 5, nil),
		finishedItem(10, 15, nil),
		{StandardTime: 99}, // open, ignored
	}
	if got := performanceRatio(items); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := performanceRatio(nil); got != 0 {
		t.Errorf("expected 0 for no items, got %v", got)
	}
}

func TestQualityRatio(t *testing.T) {
	plain := []model.WorkItemEvent{finishedItem(10, 10, nil), finishedItem(10, 10, nil)}
	if got := qualityRatio(plain, 0); got != 1 {
		t.Errorf("expected 1 without defects, got %v", got)
	}
	// weld area 2 × 10 × 100 = 2000
	if got := qualityRatio(plain, 200); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("expected 0.9, got %v", got)
	}
	if got := qualityRatio(plain, 5000); got != 0 {
		t.Errorf("expected 0 when defects exceed weld area, got %v", got)
	}
	if got := qualityRatio(nil, 10); got != 1 {
		t.Errorf("expected 1 without weld area, got %v", got)
	}

	piped := finishedItem(10, 10, floatPtr(2))
	if got, want := weldArea(&piped), math.Pi*2*10*10; got != want {
		t.Errorf("expected weld area %v, got %v", want, got)
	}
}

func TestComposeFigures(t *testing.T) {
	got := composeFigures(0.75, 1.2, 0.9)
	want := dto.OEEFigures{Availability: 75, Performance: 120, Quality: 90, Productivity: 90, OEE: 81}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestRankByOEE_StableTies(t *testing.T) {
	workers := []dto.WorkerOEE{
		{WorkerID: 1, OEEFigures: dto.OEEFigures{OEE: 50}},
		{WorkerID: 2, OEEFigures: dto.OEEFigures{OEE: 80}},
		{WorkerID: 3, OEEFigures: dto.OEEFigures{OEE: 50}},
		{WorkerID: 4, OEEFigures: dto.OEEFigures{OEE: 90}},
	}

	ranked := rankByOEE(workers, 3)
	var ids []uint
	for _, w := range ranked {
		ids = append(ids, w.WorkerID)
	}
	if len(ids) != 3 || ids[0] != 4 || ids[1] != 2 || ids[2] != 1 {
		t.Errorf("expected [4 2 1], got %v", ids)
	}
	if workers[0].WorkerID != 1 {
		t.Error("expected input slice untouched")
	}
}

func TestRound2(t *testing.T) {
	tests := map[float64]float64{
		142.857142: 142.86,
		15.333333:  15.33,
		0.005:      0.01,
		1.005:      1.01,
		2.675:      2.68,
		1.0049:     1,
		-1.005:     -1.01,
		100:        100,
	}
	for in, want := range tests {
		if got := round2(in); got != want {
			t.Errorf("round2(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestCalendarDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	late := time.Date(2024, 3, 5, 2, 59, 0, 0, time.UTC)
	if got := calendarDate(late, loc).Format(dateLayout); got != "2024-03-04" {
		t.Errorf("expected 2024-03-04, got %s", got)
	}
	if got := calendarDate(late, time.UTC).Format(dateLayout); got != "2024-03-05" {
		t.Errorf("expected 2024-03-05, got %s", got)
	}

	start := dayStart(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), loc)
	if want := time.Date(2024, 3, 4, 3, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("expected day start %v, got %v", want, start)
	}
}
