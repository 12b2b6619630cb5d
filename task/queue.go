package task

import (
	"sync"
	"time"

	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/media"
)

type job struct {
	task Task
	done *Completion
}

// Queue runs tasks against a single engine, one at a time, in enqueue order.
// A failing task rejects only its own completion; the queue moves on to the next task.
type Queue struct {
	mu      sync.Mutex
	engine  media.Engine
	jobs    []*job
	current *job
	active  bool
	tick    time.Duration
}

// NewQueue returns an idle queue for the engine.
// Deferred tasks wait tick before running; zero still defers them to another goroutine.
func NewQueue(e media.Engine, tick time.Duration) *Queue {
	return &Queue{engine: e, tick: tick}
}

// Len returns the number of tasks waiting or running.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current != nil {
		return len(q.jobs) + 1
	}
	return len(q.jobs)
}

// Enqueue appends t and starts the queue if it was idle.
// Synchronous tasks reaching the head of an idle queue run before Enqueue returns.
func (q *Queue) Enqueue(t Task) *Completion {
	c := q.Push(t)
	q.Start()
	return c
}

// Push appends t without running anything. The task waits until Start is called.
// Callers holding their own locks push under them and start after releasing them.
func (q *Queue) Push(t Task) *Completion {
	j := &job{task: t, done: newCompletion()}

	q.mu.Lock()
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()

	return j.done
}

// Start runs pushed tasks unless the queue is already running.
func (q *Queue) Start() {
	q.mu.Lock()
	if q.active || len(q.jobs) == 0 {
		q.mu.Unlock()
		return
	}
	q.active = true
	q.mu.Unlock()

	q.executeNext()
}

// executeNext drives the queue until it is empty.
// Consecutive synchronous tasks run in the calling goroutine; a deferred task hands the rest over to a timer.
func (q *Queue) executeNext() {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.active = false
			q.mu.Unlock()
			return
		}
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.current = j
		q.mu.Unlock()

		if !j.task.Synchronous() {
			time.AfterFunc(q.tick, func() {
				q.execute(j)
				q.executeNext()
			})
			return
		}

		q.execute(j)
	}
}

// execute runs j and settles its completion regardless of the outcome.
func (q *Queue) execute(j *job) {
	err := q.run(j.task)
	if err != nil {
		log.Errorf("engine %s: %s task failed: %v", q.engine.ID(), j.task.Kind(), err)
	}

	q.mu.Lock()
	q.current = nil
	q.mu.Unlock()

	j.done.finish(err)
}

// run shields the queue from panicking engines.
func (q *Queue) run(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Kind: t.Kind(), Value: r}
		}
	}()

	return t.Run(q.engine)
}
