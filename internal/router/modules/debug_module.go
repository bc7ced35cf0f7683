package modules

import (
	"expvar"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventhub/internal/interface/middleware"
)

// StatsFunc reports a snapshot for one published expvar.
type StatsFunc func() any

type DebugModule struct {
	Stats map[string]StatsFunc
}

func NewDebugModule(stats map[string]StatsFunc) *DebugModule {
	return &DebugModule{Stats: stats}
}

var (
	publishMu sync.Mutex
	published = map[string]*statsVar{}
)

type statsVar struct {
	mu sync.RWMutex
	fn StatsFunc
}

func (v *statsVar) value() any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fn()
}

// publish registers fn under name; later calls rebind the same expvar
// because expvar names are process-global.
func publish(name string, fn StatsFunc) {
	publishMu.Lock()
	defer publishMu.Unlock()
	if v, ok := published[name]; ok {
		v.mu.Lock()
		v.fn = fn
		v.mu.Unlock()
		return
	}
	v := &statsVar{fn: fn}
	published[name] = v
	expvar.Publish(name, expvar.Func(v.value))
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	for name, fn := range m.Stats {
		publish(name, fn)
	}
	rg.GET("/debug/vars", middleware.Only(middleware.AllowPrivateIP()), gin.WrapH(expvar.Handler()))
}
