// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordAnalysisRequest()
	RecordAnalysisSaved()
	RecordAnalysisFallback()
	RecordModelCall(duration time.Duration)
	RecordModelFailure()
	RecordHTTPStatus(statusCode int)
	RecordDemoLogin()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	analysisRequests prometheus.Counter
	analysisSaved    prometheus.Counter
	analysisFallback prometheus.Counter
	modelFail        prometheus.Counter
	modelLatency     prometheus.Histogram
	httpStatus       *prometheus.CounterVec
	demoLogins       prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		analysisRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerpath_analysis_requests_total",
			Help: "レジュメ分析リクエストの合計数",
		}),
		analysisSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerpath_analysis_saved_total",
			Help: "履歴として保存された分析結果の合計数",
		}),
		analysisFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerpath_analysis_fallback_total",
			Help: "モデル出力がパースできず既定値で補った分析の合計数",
		}),
		modelFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerpath_model_fail_total",
			Help: "AIモデル呼び出し失敗の合計数",
		}),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "careerpath_model_latency_seconds",
			Help:    "AIモデル呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerpath_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		demoLogins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerpath_demo_login_total",
			Help: "デモクレデンシャルによるログインの合計数",
		}),
	}

	reg.MustRegister(
		c.analysisRequests,
		c.analysisSaved,
		c.analysisFallback,
		c.modelFail,
		c.modelLatency,
		c.httpStatus,
		c.demoLogins,
	)

	return c
}

// RecordAnalysisRequest はレジュメ分析リクエストを記録する。
func (c *Collector) RecordAnalysisRequest() {
	c.analysisRequests.Inc()
}

// RecordAnalysisSaved は分析結果の保存成功を記録する。
func (c *Collector) RecordAnalysisSaved() {
	c.analysisSaved.Inc()
}

// RecordAnalysisFallback は既定値で補われた分析を記録する。
func (c *Collector) RecordAnalysisFallback() {
	c.analysisFallback.Inc()
}

// RecordModelCall はモデル呼び出しのレイテンシを記録する。
func (c *Collector) RecordModelCall(duration time.Duration) {
	c.modelLatency.Observe(duration.Seconds())
}

// RecordModelFailure はモデル呼び出しの失敗を記録する。
func (c *Collector) RecordModelFailure() {
	c.modelFail.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordDemoLogin はデモログインを記録する。
func (c *Collector) RecordDemoLogin() {
	c.demoLogins.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
