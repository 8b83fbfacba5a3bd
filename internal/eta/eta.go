// Package eta estimates a tailor's completion time from their open workload.
package eta

import "fmt"

const (
	HoursPerHeavyTask = 72
	HoursPerLightTask = 4
)

// EstimateHours totals the queue time for a tailor's pending tasks.
func EstimateHours(heavyTasks, lightTasks int) int {
	return heavyTasks*HoursPerHeavyTask + lightTasks*HoursPerLightTask
}

// Format renders a total-hours estimate for display:
// 0 hours is "Ready Now", under a day is "N hours", otherwise days with the
// remainder, e.g. "6d 12h" or "3 days".
func Format(totalHours int) string {
	if totalHours == 0 {
		return "Ready Now"
	}
	if totalHours < 24 {
		return fmt.Sprintf("%d hours", totalHours)
	}
	days := totalHours / 24
	extraHours := totalHours % 24
	if extraHours > 0 {
		return fmt.Sprintf("%dd %dh", days, extraHours)
	}
	return fmt.Sprintf("%d days", days)
}

// Estimate is the composed form used by tailor listings.
func Estimate(heavyTasks, lightTasks int) string {
	return Format(EstimateHours(heavyTasks, lightTasks))
}
