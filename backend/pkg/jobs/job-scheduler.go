package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// specParser accepts standard five field expressions, six field expressions
// with a leading seconds field, and descriptors such as "@every 30s".
var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type JobScheduler struct {
	scheduler *cron.Cron
	logger    *logrus.Entry
	jobs      map[string]cron.EntryID
}

func NewJobScheduler(logger *logrus.Entry) *JobScheduler {
	return &JobScheduler{
		scheduler: cron.New(cron.WithParser(specParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger,
		jobs:      map[string]cron.EntryID{},
	}
}

// Schedule registers a named job. Jobs added after Start are picked up by
// the running scheduler.
func (js *JobScheduler) Schedule(name string, frequency string, job cron.Job) error {
	if job == nil {
		return fmt.Errorf("job %s is nil", name)
	}

	if _, ok := js.jobs[name]; ok {
		return fmt.Errorf("job %s already scheduled", name)
	}

	js.logger.Infof("scheduling job '%s' with expression: '%s'", name, frequency)
	if strings.Count(strings.TrimSpace(frequency), " ") == 5 {
		js.logger.Warnf("job '%s' uses 'second level' scheduling. This may cause performance issues in production scenarios", name)
	}

	jobID, err := js.scheduler.AddJob(frequency, job)
	if err != nil {
		js.logger.Errorf("could not add scheduled run for job '%s': %s", name, err)
		return err
	}

	js.jobs[name] = jobID
	return nil
}

// Every builds the expression for a job running at a fixed interval.
func Every(interval time.Duration) string {
	return fmt.Sprintf("@every %s", interval)
}

func (js *JobScheduler) Start() {
	js.scheduler.Start()
}

// NextRun returns the next activation of a job, or the zero time if the job
// is unknown or the scheduler is not running.
func (js *JobScheduler) NextRun(name string) time.Time {
	jobID, ok := js.jobs[name]
	if !ok {
		return time.Time{}
	}

	return js.scheduler.Entry(jobID).Next
}

func (js *JobScheduler) Stop() {
	for name, jobID := range js.jobs {
		js.scheduler.Remove(jobID)
		delete(js.jobs, name)
	}

	<-js.scheduler.Stop().Done()
}
