package service

import (
	"math"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
)

// availabilityRatio (H - S) / H, floored at zero; no planned hours gives 0
func availabilityRatio(availableHours, stoppageHours float64) float64 {
	if availableHours <= 0 {
		return 0
	}
	return math.Max(0, availableHours-stoppageHours) / availableHours
}

// performanceRatio Σ standard / Σ actual over finished items
func performanceRatio(items []model.WorkItemEvent) float64 {
	var standard, actual float64
	for i := range items {
		if items[i].ActualTime == nil {
			continue
		}
		standard += items[i].StandardTime
		actual += *items[i].ActualTime
	}
	if actual <= 0 {
		return 0
	}
	return standard / actual
}

// weldArea estimated welded area of one item
func weldArea(item *model.WorkItemEvent) float64 {
	if item.Diameter != nil && *item.Diameter > 0 {
		return math.Pi * *item.Diameter * item.StandardTime * 10
	}
	return item.StandardTime * 100
}

// qualityRatio 1 - defect / weld, floored at zero. Without weld area
// there is nothing to reject, so quality is perfect.
func qualityRatio(items []model.WorkItemEvent, defectArea float64) float64 {
	var total float64
	for i := range items {
		total += weldArea(&items[i])
	}
	if total <= 0 {
		return 1
	}
	return math.Max(0, 1-defectArea/total)
}

// composeFigures turns the three ratios into rounded percentages
func composeFigures(availability, performance, quality float64) dto.OEEFigures {
	return dto.OEEFigures{
		Availability: round2(availability * 100),
		Performance:  round2(performance * 100),
		Quality:      round2(quality * 100),
		Productivity: round2(availability * performance * 100),
		OEE:          round2(availability * performance * quality * 100),
	}
}
