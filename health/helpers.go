package health

import "time"

// NewHealthy creates a new healthy status
func NewHealthy(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   true,
		Status:    "healthy",
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewUnhealthy creates a new unhealthy status
func NewUnhealthy(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   false,
		Status:    "unhealthy",
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewDegraded creates a new degraded status
func NewDegraded(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   false,
		Status:    "degraded",
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInactive creates a new inactive status for a connection closed on purpose
func NewInactive(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   false,
		Status:    "inactive",
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Aggregate creates a status by aggregating sub-statuses
// The aggregation rules are:
// - Inactive sub-statuses are ignored; a connection closed on purpose is not a failure
// - If any active sub-status is unhealthy, the aggregate is unhealthy
// - If no active sub-status is unhealthy but at least one is degraded, the aggregate is degraded
// - If all active sub-statuses are healthy, the aggregate is healthy
// - If every sub-status is inactive, the aggregate is inactive
func Aggregate(component string, subStatuses []Status) Status {
	if len(subStatuses) == 0 {
		return NewHealthy(component, "No sub-components to aggregate")
	}

	hasUnhealthy := false
	hasDegraded := false
	hasActive := false

	for _, sub := range subStatuses {
		if sub.IsInactive() {
			continue
		}
		hasActive = true
		if sub.IsUnhealthy() {
			hasUnhealthy = true
		} else if sub.IsDegraded() {
			hasDegraded = true
		}
	}

	var status Status
	switch {
	case hasUnhealthy:
		status = NewUnhealthy(component, "One or more sub-components are unhealthy")
	case hasDegraded:
		status = NewDegraded(component, "One or more sub-components are degraded")
	case !hasActive:
		status = NewInactive(component, "All sub-components are inactive")
	default:
		status = NewHealthy(component, "All active sub-components are healthy")
	}

	status.SubStatuses = make([]Status, len(subStatuses))
	copy(status.SubStatuses, subStatuses)

	return status
}
