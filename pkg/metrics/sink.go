package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// MetricType 指标聚合方式
type MetricType string

const (
	Counter MetricType = "counter" // 累加
	Rate    MetricType = "rate"    // 成功占比
	Trend   MetricType = "trend"   // 分布与分位数
)

// Sink 聚合同一指标的样本
type Sink interface {
	Add(value float64)
	Format() map[string]float64
	IsEmpty() bool
}

// NewSink 按类型创建聚合器，未知类型按 Counter 处理
func NewSink(metricType MetricType) Sink {
	switch metricType {
	case Rate:
		return &RateSink{}
	case Trend:
		return NewTrendSink()
	default:
		return &CounterSink{}
	}
}

// CounterSink 样本求和
type CounterSink struct {
	mu  sync.Mutex
	sum float64
}

func (c *CounterSink) Add(value float64) {
	c.mu.Lock()
	c.sum += value
	c.mu.Unlock()
}

func (c *CounterSink) Format() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]float64{"count": c.sum}
}

func (c *CounterSink) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sum == 0
}

// RateSink 统计非零样本占比，非零视为成功
type RateSink struct {
	passes atomic.Int64
	total  atomic.Int64
}

func (r *RateSink) Add(value float64) {
	if value != 0 {
		r.passes.Add(1)
	}
	r.total.Add(1)
}

func (r *RateSink) Format() map[string]float64 {
	passes, total := r.passes.Load(), r.total.Load()
	rate := 0.0
	if total > 0 {
		rate = float64(passes) / float64(total)
	}
	return map[string]float64{
		"passes": float64(passes),
		"fails":  float64(total - passes),
		"rate":   rate,
	}
}

func (r *RateSink) IsEmpty() bool {
	return r.total.Load() == 0
}

// 直方图范围：1µs 到 1min，3 位有效数字
const (
	trendLowest  = 1
	trendHighest = int64(time.Minute / time.Microsecond)
	trendSigFigs = 3
)

// TrendSink 趋势聚合器，样本单位为微秒，百分位数由 HDR 直方图计算
type TrendSink struct {
	hist *hdrhistogram.Histogram
	mu   sync.Mutex
}

// NewTrendSink 创建趋势聚合器
func NewTrendSink() *TrendSink {
	return &TrendSink{hist: hdrhistogram.New(trendLowest, trendHighest, trendSigFigs)}
}

// Add 添加样本，超出范围的值会被截断到边界
func (t *TrendSink) Add(value float64) {
	v := int64(value)
	if v < trendLowest {
		v = trendLowest
	}
	if v > trendHighest {
		v = trendHighest
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.hist.RecordValue(v)
}

// AddDuration 以微秒记录一个耗时
func (t *TrendSink) AddDuration(d time.Duration) {
	t.Add(float64(d.Microseconds()))
}

// Format 输出 count、min、max、avg、med 以及 p(90)/p(95)/p(99)
func (t *TrendSink) Format() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.hist
	if h.TotalCount() == 0 {
		return map[string]float64{"count": 0}
	}
	return map[string]float64{
		"count": float64(h.TotalCount()),
		"min":   float64(h.Min()),
		"max":   float64(h.Max()),
		"avg":   h.Mean(),
		"med":   float64(h.ValueAtQuantile(50)),
		"p(90)": float64(h.ValueAtQuantile(90)),
		"p(95)": float64(h.ValueAtQuantile(95)),
		"p(99)": float64(h.ValueAtQuantile(99)),
	}
}

func (t *TrendSink) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hist.TotalCount() == 0
}

// Percentile 返回指定百分位数（0-100）
func (t *TrendSink) Percentile(p float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.hist.ValueAtQuantile(p))
}
