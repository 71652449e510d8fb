package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/storefront-console/internal/backend"
	"github.com/alextreichler/storefront-console/internal/models"
)

type stubProber struct{ err error }

func (p stubProber) Probe(context.Context) error { return p.err }

func TestCheckAll(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"UP"}`))
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	m := NewMonitor([]Service{
		{Name: "product", Prober: backend.NewClient(up.URL)},
		{Name: "inventory", Prober: backend.NewClient(down.URL)},
		{Name: "order", Prober: stubProber{err: errors.New("dial failed")}},
	}, 0)

	for _, s := range m.Statuses() {
		assert.Equal(t, StatusUnknown, s.Status)
	}

	m.CheckAll(context.Background())
	statuses := m.Statuses()
	require.Len(t, statuses, 3)
	assert.Equal(t, "product", statuses[0].Name)
	assert.Equal(t, StatusOnline, statuses[0].Status)
	assert.Equal(t, StatusOffline, statuses[1].Status)
	assert.Equal(t, StatusOffline, statuses[2].Status)
	assert.False(t, statuses[0].CheckedAt.IsZero())

	assert.True(t, statuses[0].Answered)
	assert.True(t, statuses[1].Answered)
	assert.False(t, statuses[2].Answered)
}

func TestUnreachableServiceIsNotAnswered(t *testing.T) {
	gone := httptest.NewServer(http.NotFoundHandler())
	gone.Close()

	m := NewMonitor([]Service{{Name: "order", Prober: backend.NewClient(gone.URL)}}, 0)
	m.CheckAll(context.Background())

	s := m.Statuses()[0]
	assert.Equal(t, StatusOffline, s.Status)
	assert.False(t, s.Answered)
}

func TestStatusFollowsLatestProbe(t *testing.T) {
	prober := &toggleProber{}
	m := NewMonitor([]Service{{Name: "product", Prober: prober}}, 0)

	m.CheckAll(context.Background())
	assert.Equal(t, StatusOnline, m.Statuses()[0].Status)

	prober.fail = true
	m.CheckAll(context.Background())
	assert.Equal(t, StatusOffline, m.Statuses()[0].Status)
}

type toggleProber struct{ fail bool }

func (p *toggleProber) Probe(context.Context) error {
	if p.fail {
		return errors.New("down")
	}
	return nil
}

func TestStatusMessage(t *testing.T) {
	msg, sev := StatusMessage("product", StatusOnline)
	assert.Equal(t, "product service is online", msg)
	assert.Equal(t, models.SeveritySuccess, sev)

	msg, sev = StatusMessage("order", StatusOffline)
	assert.Equal(t, "order service is offline", msg)
	assert.Equal(t, models.SeverityError, sev)
}
