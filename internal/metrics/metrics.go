package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// UsersRegistered counts successful registrations.
	UsersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_users_registered_total",
			Help: "Total number of registered users",
		},
	)

	// Logins counts login attempts by result (success, failure).
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// Posts counts post mutations by action (create, update, delete).
	Posts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_posts_total",
			Help: "Total number of post mutations by action",
		},
		[]string{"action"},
	)
)

var (
	uuidPathSegment = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	initOnce        sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UsersRegistered, Logins, Posts)
	})
}

// NormalizePath reduces cardinality by replacing UUID path segments with {id}.
// E.g. /users/6f1c.../activity -> /users/{id}/activity.
func NormalizePath(path string) string {
	return uuidPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncUsersRegistered increments the registration counter.
func IncUsersRegistered() {
	UsersRegistered.Inc()
}

// IncLogins increments the login counter for result (success, failure).
func IncLogins(result string) {
	Logins.WithLabelValues(result).Inc()
}

// IncPosts increments the post mutation counter for action (create, update, delete).
func IncPosts(action string) {
	Posts.WithLabelValues(action).Inc()
}
