package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// Sweeper is the part of the reservation service the monitor drives.
type Sweeper interface {
	SweepOverdue(ctx context.Context) (SweepResult, error)
}

// NoShowMonitor periodically marks overdue confirmed reservations as no-shows
// and expires pending ones.
type NoShowMonitor struct {
	Sweeper  Sweeper
	StopChan chan struct{}
	Interval time.Duration
	Timeout  time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

func NewNoShowMonitor(sweeper Sweeper, interval time.Duration) *NoShowMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &NoShowMonitor{
		Sweeper:  sweeper,
		StopChan: make(chan struct{}),
		Interval: interval,
		Timeout:  30 * time.Second,
	}
}

func (m *NoShowMonitor) Start() {
	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.StopChan:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for a running sweep to finish.
func (m *NoShowMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.StopChan)
	})
	if m.done != nil {
		<-m.done
	}
}

func (m *NoShowMonitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), m.Timeout)
	defer cancel()

	result, err := m.Sweeper.SweepOverdue(ctx)
	if err != nil {
		utils.ErrorLogger.Errorf("no-show sweep failed: %v", err)
		return
	}
	if result.NoShows > 0 || result.Expired > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{
			"no_shows": result.NoShows,
			"expired":  result.Expired,
		}).Info("processed overdue reservations")
	}
}
