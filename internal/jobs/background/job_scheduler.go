package background

import (
	"context"
	"log"
	"sync"
	"time"

	"barpos/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// AlertTickInterval is how often the table-alert scan runs.
const AlertTickInterval = 1 * time.Minute

// JobScheduler owns the recurring background jobs. Its lifetime is tied to
// the process; Start is idempotent so the HTTP layer can expose it as an
// endpoint without double-starting the timer.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	alertSvc   *jobs.TableAlertService
	jobsByName map[string]gocron.Job
	mu         sync.Mutex
	started    bool
}

// NewJobScheduler creates the scheduler and registers all jobs. The clock is
// shared with the services so tests can drive time.
func NewJobScheduler(alertSvc *jobs.TableAlertService, clock clockwork.Clock) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		alertSvc:   alertSvc,
		jobsByName: make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs() error {
	alertJob, err := js.scheduler.NewJob(
		gocron.DurationJob(AlertTickInterval),
		gocron.NewTask(js.alertSvc.CheckTables, context.Background()),
		gocron.WithName("table-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.jobsByName["table-alerts"] = alertJob

	log.Printf("Registered %d background jobs", len(js.jobsByName))
	return nil
}

// Start starts the recurring jobs. Calling it again is a no-op.
func (js *JobScheduler) Start() {
	js.mu.Lock()
	defer js.mu.Unlock()
	if js.started {
		return
	}
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	js.started = true
}

// Stop shuts the scheduler down. Used by tests; the process otherwise keeps
// it for its whole lifetime.
func (js *JobScheduler) Stop() error {
	js.mu.Lock()
	defer js.mu.Unlock()
	if !js.started {
		return nil
	}
	log.Printf("Stopping background job scheduler")
	js.started = false
	return js.scheduler.Shutdown()
}

// Running reports whether Start has been called.
func (js *JobScheduler) Running() bool {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.started
}
