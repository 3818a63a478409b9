package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolsite_logins_total",
		Help: "Successful admin logins.",
	})
	loginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolsite_login_failures_total",
		Help: "Rejected login attempts.",
	})
	enrollmentsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolsite_enrollments_saved_total",
		Help: "Enrollment submissions persisted.",
	})
	eventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolsite_events_created_total",
		Help: "Events created by admins.",
	})
	filesServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schoolsite_files_served_total",
		Help: "Blob downloads served.",
	})
)
