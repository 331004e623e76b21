// server/shutdown.go
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownManager handles graceful shutdown
type ShutdownManager struct {
	server     *http.Server
	agent      Agent
	tracker    TurnTracker
	waitGroup  sync.WaitGroup
	shutdownCh chan struct{}
	logger     *log.Logger
}

// Agent interface for agent lifecycle
type Agent interface {
	Close() error
}

// TurnTracker interface for in-flight turn tracking
type TurnTracker interface {
	Close() error
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager(srv *http.Server, agent Agent, tracker TurnTracker, logger *log.Logger) *ShutdownManager {
	return &ShutdownManager{
		server:     srv,
		agent:      agent,
		tracker:    tracker,
		shutdownCh: make(chan struct{}),
		logger:     logger,
	}
}

// HandleGracefulShutdown sets up signal handling and graceful shutdown
func (sm *ShutdownManager) HandleGracefulShutdown() error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signals
	sm.logger.Printf("Received signal: %v", sig)

	close(sm.shutdownCh)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sm.waitGroup.Add(1)
	go func() {
		defer sm.waitGroup.Done()
		sm.performGracefulShutdown(ctx)
	}()

	shutdownComplete := make(chan struct{})
	go func() {
		sm.waitGroup.Wait()
		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		sm.logger.Println("Graceful shutdown completed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %v", ctx.Err())
	}
}

// performGracefulShutdown drains the listener first so no new turns
// start, then releases the agent and the watchdog.
func (sm *ShutdownManager) performGracefulShutdown(ctx context.Context) {
	var shutdownErr error

	if err := sm.server.Shutdown(ctx); err != nil {
		shutdownErr = fmt.Errorf("server shutdown error: %v", err)
		sm.logger.Printf("Error during server shutdown: %v", err)
	}

	if err := sm.agent.Close(); err != nil {
		if shutdownErr != nil {
			shutdownErr = fmt.Errorf("multiple shutdown errors: %v; agent close error: %v", shutdownErr, err)
		} else {
			shutdownErr = fmt.Errorf("agent close error: %v", err)
		}
		sm.logger.Printf("Error closing agent: %v", err)
	}

	if err := sm.tracker.Close(); err != nil {
		if shutdownErr != nil {
			shutdownErr = fmt.Errorf("multiple shutdown errors: %v; tracker close error: %v", shutdownErr, err)
		} else {
			shutdownErr = fmt.Errorf("tracker close error: %v", err)
		}
		sm.logger.Printf("Error closing tracker: %v", err)
	}

	if shutdownErr != nil {
		sm.logger.Printf("Final shutdown error: %v", shutdownErr)
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (sm *ShutdownManager) IsShuttingDown() bool {
	select {
	case <-sm.shutdownCh:
		return true
	default:
		return false
	}
}

// WaitForShutdown blocks until shutdown is complete
func (sm *ShutdownManager) WaitForShutdown() {
	sm.waitGroup.Wait()
}
