// Package metric publishes render counters of graph nodes with expvar.
//
// Every node gets its own expvar.Map named "audiograph.nodes.<node>". The
// map holds the processor type, number of produced blocks and number of
// pulls served from the block that was already produced in the same
// quantum. Nodes with equal names share counters.
package metric

import (
	"expvar"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pipelined/audiograph/signal"
)

const nodesLabel = "audiograph.nodes"

// Counters of a node.
const (
	// ProcessorCounter holds type of node processor.
	ProcessorCounter = "Processor"
	// BlockCounter counts blocks produced by the node.
	BlockCounter = "Blocks"
	// CachedCounter counts repeated pulls within a quantum.
	CachedCounter = "Cached"
	// SampleCounter counts produced samples per channel.
	SampleCounter = "Samples"
	// DurationCounter sums the duration of produced signal.
	DurationCounter = "Duration"
	// ProcessingCounter sums the time spent in node processor.
	ProcessingCounter = "Processing"
)

var registry = struct {
	sync.Mutex
	m map[string]*Meter
}{
	m: make(map[string]*Meter),
}

// Meter captures counters of a single node.
type Meter struct {
	sampleRate int
	vars       *expvar.Map
	blocks     expvar.Int
	cached     expvar.Int
	samples    expvar.Int
	duration   duration
	processing duration
}

// New returns the meter of the node. Meter is created and published on
// the first call for the node name.
func New(node string, processor interface{}, sampleRate int) *Meter {
	registry.Lock()
	defer registry.Unlock()
	if m, ok := registry.m[node]; ok {
		return m
	}
	m := &Meter{
		sampleRate: sampleRate,
		vars:       new(expvar.Map).Init(),
	}
	p := new(expvar.String)
	p.Set(processorType(processor))
	m.vars.Set(ProcessorCounter, p)
	m.vars.Set(BlockCounter, &m.blocks)
	m.vars.Set(CachedCounter, &m.cached)
	m.vars.Set(SampleCounter, &m.samples)
	m.vars.Set(DurationCounter, &m.duration)
	m.vars.Set(ProcessingCounter, &m.processing)
	expvar.Publish(key(node), m.vars)
	registry.m[node] = m
	return m
}

// Produced records a block of blockSize samples produced in elapsed time.
func (m *Meter) Produced(blockSize int, elapsed time.Duration) {
	m.blocks.Add(1)
	m.samples.Add(int64(blockSize))
	m.duration.add(signal.DurationOf(m.sampleRate, int64(blockSize)))
	m.processing.add(elapsed)
}

// Cached records a pull that reused the block produced in the same quantum.
func (m *Meter) Cached() {
	m.cached.Add(1)
}

// Get returns counters of the node. Result is empty if node isn't metered.
func Get(node string) map[string]string {
	registry.Lock()
	m, ok := registry.m[node]
	registry.Unlock()
	if !ok {
		return map[string]string{}
	}
	return m.values()
}

// GetAll returns counters of all metered nodes.
func GetAll() map[string]map[string]string {
	registry.Lock()
	names := make([]string, 0, len(registry.m))
	for name := range registry.m {
		names = append(names, name)
	}
	registry.Unlock()
	sort.Strings(names)

	all := make(map[string]map[string]string, len(names))
	for _, name := range names {
		all[name] = Get(name)
	}
	return all
}

func (m *Meter) values() map[string]string {
	values := make(map[string]string)
	m.vars.Do(func(kv expvar.KeyValue) {
		switch v := kv.Value.(type) {
		case *expvar.String:
			values[kv.Key] = v.Value()
		case *duration:
			values[kv.Key] = v.value().String()
		default:
			values[kv.Key] = v.String()
		}
	})
	return values
}

func key(node string) string {
	return nodesLabel + "." + node
}

// processorType returns name of the dereferenced processor type. Nil
// processors, typed or not, are reported as "none".
func processorType(processor interface{}) string {
	rv := reflect.ValueOf(processor)
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return "none"
	}
	return rv.Type().String()
}

// duration is an expvar.Var of accumulated time.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return strconv.Quote(v.value().String())
}

func (v *duration) value() time.Duration {
	return time.Duration(atomic.LoadInt64(&v.d))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}
