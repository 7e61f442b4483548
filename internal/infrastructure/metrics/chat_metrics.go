package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics contains Prometheus metrics for messaging activity.
type ChatMetrics struct {
	MessagesCreated prometheus.Counter
	MessagesRead    prometheus.Counter
	ThreadsUpserted prometheus.Counter
	ThreadsDeleted  prometheus.Counter
	UsersRegistered prometheus.Counter
	LoginsTotal     *prometheus.CounterVec
	TokensRefreshed prometheus.Counter
}

// NewChatMetrics creates and registers messaging metrics with the given registerer.
func NewChatMetrics(registerer prometheus.Registerer) *ChatMetrics {
	metrics := &ChatMetrics{
		MessagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_messages_created_total",
			Help: "Total number of messages created",
		}),
		MessagesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_messages_read_total",
			Help: "Total number of messages marked as read",
		}),
		ThreadsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_thread_upserts_total",
			Help: "Total number of thread upsert operations",
		}),
		ThreadsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_threads_deleted_total",
			Help: "Total number of threads deleted",
		}),
		UsersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_users_registered_total",
			Help: "Total number of registered users",
		}),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // status: success/failed
		),
		TokensRefreshed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_tokens_refreshed_total",
			Help: "Total number of successful token refreshes",
		}),
	}

	registerer.MustRegister(
		metrics.MessagesCreated,
		metrics.MessagesRead,
		metrics.ThreadsUpserted,
		metrics.ThreadsDeleted,
		metrics.UsersRegistered,
		metrics.LoginsTotal,
		metrics.TokensRefreshed,
	)

	return metrics
}
