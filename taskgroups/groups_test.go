package taskgroups

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"github.com/jasonlai/aurora/common/backoff"
	"github.com/jasonlai/aurora/schedcore"
	"github.com/jasonlai/aurora/schedcore/mocks"

	"github.com/uber-go/tally"
)

const groupA = schedcore.GroupKey("groupA")

type fakePlacer struct {
	results map[schedcore.TaskID]schedcore.ScheduleStatus
	calls   []schedcore.TaskID
}

func (p *fakePlacer) Schedule(ctx context.Context, taskID schedcore.TaskID) (schedcore.ScheduleStatus, error) {
	p.calls = append(p.calls, taskID)
	status, ok := p.results[taskID]
	if !ok {
		return schedcore.ScheduleSuccess, nil
	}
	return status, nil
}

type GroupsTestSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	placer    *fakePlacer
	sched     *schedcore.ManualScheduler
	clock     *schedcore.ManualClock
	reschedCalc *mocks.MockRescheduleCalculator
	policy    *backoff.Policy
	g         *groups
}

func TestGroupsTestSuite(t *testing.T) {
	suite.Run(t, new(GroupsTestSuite))
}

func (s *GroupsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.placer = &fakePlacer{results: make(map[schedcore.TaskID]schedcore.ScheduleStatus)}
	s.sched = schedcore.NewManualScheduler()
	s.clock = schedcore.NewManualClock(time.Unix(0, 0))
	s.reschedCalc = mocks.NewMockRescheduleCalculator(s.ctrl)
	s.policy = backoff.NewPolicy(time.Millisecond, time.Hour, 10)

	cfg := Config{
		FirstScheduleDelay: time.Millisecond,
		RateLimit:          rate.Inf,
		RateBurst:          1,
	}
	built := New(cfg, s.placer, s.sched, s.clock, s.policy, s.reschedCalc, NewMetrics(tally.NewTestScope("", nil)))
	s.g = built.(*groups)
}

func (s *GroupsTestSuite) pending(id schedcore.TaskID) schedcore.Task {
	return schedcore.Task{ID: id, GroupKey: groupA, Status: schedcore.TaskPending}
}

// A task entering PENDING arms exactly one retry for its group
// (invariant G1): a second task in the same group before the retry fires
// must not arm a second one.
func (s *GroupsTestSuite) TestSingleOutstandingRetryPerGroup() {
	ctx := context.Background()
	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: s.pending("t1")})
	s.Equal(1, s.sched.Pending())

	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: s.pending("t2")})
	s.Equal(1, s.sched.Pending())
	s.Equal(1, s.g.NumGroups())
}

// NoTasks: with no members, a fired attempt for a group that has since been
// emptied out disposes of the group rather than re-arming.
func (s *GroupsTestSuite) TestRunAttemptDisposesEmptyGroup() {
	ctx := context.Background()
	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: s.pending("t1")})
	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: schedcore.Task{ID: "t1", GroupKey: groupA, Status: schedcore.TaskAssigned}, From: schedcore.TaskPending})

	s.True(s.sched.FireNext())
	s.Equal(0, s.g.NumGroups())
}

// ResistsStarvation: each fire attempts at most one member of a group,
// regardless of outcome — a group with many pending members must not drain
// itself in a single fire and starve its siblings' timers. The group
// re-arms after every fire so the remaining members get a future attempt.
func (s *GroupsTestSuite) TestResistsStarvation() {
	ctx := context.Background()
	s.placer.results["t2"] = schedcore.ScheduleTryLater

	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: s.pending("t1")})
	s.g.mu.Lock()
	s.g.byKey[groupA].addMember("t2")
	s.g.mu.Unlock()

	s.True(s.sched.FireNext())
	s.Equal([]schedcore.TaskID{"t1"}, s.placer.calls, "only the first pending member is attempted")
	s.Equal(1, s.sched.Pending())
	s.Equal(1, s.g.NumGroups())

	s.g.mu.Lock()
	penalty := s.g.byKey[groupA].penalty
	s.g.mu.Unlock()
	// The group's first attempt fires at firstScheduleDelay (1ms); the
	// re-arm after that fire is backoff.Calculate(1ms) == 10ms, not
	// backoff.Calculate(0) == Initial == 1ms.
	s.Equal(10*time.Millisecond, penalty)

	// t1 placed successfully leaves PENDING, so the next fire reaches t2.
	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{
		Task: schedcore.Task{ID: "t1", GroupKey: groupA, Status: schedcore.TaskAssigned},
		From: schedcore.TaskPending,
	})

	s.True(s.sched.FireNext())
	s.Equal([]schedcore.TaskID{"t1", "t2"}, s.placer.calls)
	s.Equal(1, s.sched.Pending(), "t2's TRY_LATER re-arms the group")
	s.Equal(1, s.g.NumGroups())

	s.g.mu.Lock()
	penalty = s.g.byKey[groupA].penalty
	s.g.mu.Unlock()
	s.Equal(100*time.Millisecond, penalty)
}

// A second fire after the first backoff multiplies the penalty rather than
// resetting it, matching Policy.Calculate's truncated-exponential shape. The
// very first fire already applies one step of backoff, since the group's
// penalty is seeded with firstScheduleDelay when it is armed.
func (s *GroupsTestSuite) TestBackoffPenaltyGrows() {
	ctx := context.Background()
	s.placer.results["t1"] = schedcore.ScheduleTryLater

	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: s.pending("t1")})
	s.True(s.sched.FireNext())

	s.g.mu.Lock()
	penalty := s.g.byKey[groupA].penalty
	s.g.mu.Unlock()
	s.Equal(10*time.Millisecond, penalty)

	s.True(s.sched.FireNext())

	s.g.mu.Lock()
	penalty = s.g.byKey[groupA].penalty
	s.g.mu.Unlock()
	s.Equal(100*time.Millisecond, penalty)
}

// Initialize schedules tasks observed PENDING at startup through
// RescheduleCalculator.StartupScheduleDelay rather than FirstScheduleDelay.
func (s *GroupsTestSuite) TestInitializeUsesStartupDelay() {
	task := s.pending("t1")
	s.reschedCalc.EXPECT().StartupScheduleDelay(task).Return(5 * time.Second)

	s.g.Initialize(context.Background(), []schedcore.Task{task})
	s.Equal(1, s.sched.Pending())
}

// TasksDeleted removes the member from its group. With a retry still
// scheduled, disposal is deferred to that retry's fire; once it fires and
// finds the group empty, it deletes the group.
func (s *GroupsTestSuite) TestTasksDeletedDisposesGroup() {
	ctx := context.Background()
	s.g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: s.pending("t1")})
	s.Equal(1, s.g.NumGroups())

	s.g.TasksDeleted(ctx, schedcore.TasksDeleted{TaskIDs: []schedcore.TaskID{"t1"}})
	s.Equal(1, s.g.NumGroups(), "dispose is deferred while a retry is scheduled")

	s.True(s.sched.FireNext())
	s.Equal(0, s.g.NumGroups())
}
