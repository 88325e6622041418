package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "club",
		Subsystem: "governance",
		Name:      "decisions_total",
		Help:      "审批决定次数，按对象（club/activity/application）与结果划分",
	}, []string{"entity", "decision"})
	roleChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "club",
		Subsystem: "governance",
		Name:      "role_changes_total",
		Help:      "全局角色变更次数",
	}, []string{"direction"})
	transfers = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "club",
		Subsystem: "governance",
		Name:      "leadership_transfers_total",
		Help:      "社团负责人转让次数",
	})
	assetCleanupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "club",
		Subsystem: "storage",
		Name:      "asset_cleanup_failures_total",
		Help:      "驳回后删除上传文件失败的次数",
	})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "club",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(decisions, roleChanges, transfers, assetCleanupFailures, requestDuration)
}

const (
	RolePromoted   = "promote"
	RoleDemoted    = "demote"
	RoleOverridden = "override"
)

func RecordDecision(entity, decision string) {
	decisions.WithLabelValues(entity, decision).Inc()
}

func RecordRoleChange(direction string, n int) {
	roleChanges.WithLabelValues(direction).Add(float64(n))
}

func RecordTransfer() {
	transfers.Inc()
}

func RecordAssetCleanupFailure() {
	assetCleanupFailures.Inc()
}

func ObserveRequest(method, route, status string, elapsed time.Duration) {
	requestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
