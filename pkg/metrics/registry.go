package metrics

import (
	"sort"
	"sync"
	"time"
)

// Metric 定义一个指标
type Metric struct {
	Name string     `json:"name"`
	Type MetricType `json:"type"`
	Sink Sink       `json:"-"`
}

// Registry 管理每个操作的指标：耗时趋势、成功率以及按错误类型的计数
type Registry struct {
	metrics map[string]*Metric
	mu      sync.RWMutex
}

// NewRegistry 创建指标注册表
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]*Metric)}
}

// Get 获取或创建指标；已存在同名指标时返回已有实例
func (r *Registry) Get(name string, typ MetricType) *Metric {
	r.mu.RLock()
	m, ok := r.metrics[name]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.metrics[name]; ok {
		return m
	}
	m = &Metric{Name: name, Type: typ, Sink: NewSink(typ)}
	r.metrics[name] = m
	return m
}

// Record 记录一次操作。errKind 为空表示成功。
func (r *Registry) Record(op string, latency time.Duration, errKind string) {
	r.Get(op+".duration", Trend).Sink.(*TrendSink).AddDuration(latency)

	success := 1.0
	if errKind != "" {
		success = 0
		r.Get(op+".errors."+errKind, Counter).Sink.Add(1)
	}
	r.Get(op+".success", Rate).Sink.Add(success)
}

// Names 返回已注册的指标名称（已排序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot 返回所有非空指标的统计结果
func (r *Registry) Snapshot() map[string]map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]map[string]float64, len(r.metrics))
	for name, m := range r.metrics {
		if m.Sink.IsEmpty() {
			continue
		}
		out[name] = m.Sink.Format()
	}
	return out
}

// Reset 清空所有指标
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = make(map[string]*Metric)
}
