package manager

import (
	"time"

	"convertd/pkg/types"
)

func (m *Manager) beginRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight++
	m.runsTotal++
}

func (m *Manager) endRun(model string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--
	if err != nil {
		m.runsFailed++
		m.lastError = err.Error()
		return
	}
	m.lastModel = model
}

// Status builds the response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	return types.StatusResponse{
		Inflight:       m.inflight,
		RunsTotal:      m.runsTotal,
		RunsFailed:     m.runsFailed,
		LastError:      m.lastError,
		LastModel:      m.lastModel,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}
