// Package complaint provides the business boundary for citizen safety reports.
// It defines the Service (validation, defaults, active-alert projection), the
// Store interface (persistence), and the domain model.
package complaint
