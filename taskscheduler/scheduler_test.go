package taskscheduler

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"

	"github.com/jasonlai/aurora/offerqueue"
	"github.com/jasonlai/aurora/schedcore"
	"github.com/jasonlai/aurora/schedcore/mocks"
	"github.com/jasonlai/aurora/storage"
)

const (
	jobKey  = "role/env/job"
	groupA  = schedcore.GroupKey("groupA")
	host1   = schedcore.HostID("host1")
	slave1  = schedcore.SlaveID("slave1")
	offer1  = schedcore.OfferID("offer1")
)

type fakeSink struct {
	changes []schedcore.TaskStateChange
}

func (f *fakeSink) TaskChangedState(ctx context.Context, change schedcore.TaskStateChange) {
	f.changes = append(f.changes, change)
}

func (f *fakeSink) TasksDeleted(ctx context.Context, deleted schedcore.TasksDeleted) {}

type SchedulerTestSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	store     *storage.Memory
	driver    *mocks.MockDriver
	mc        *mocks.MockMaintenanceController
	assigner  *mocks.MockAssigner
	preemptor *mocks.MockPreemptor
	sink      *fakeSink
	sched     *schedcore.ManualScheduler
	clock     *schedcore.ManualClock
	offers    offerqueue.Queue
	s         *Scheduler
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = storage.NewMemory()
	s.driver = mocks.NewMockDriver(s.ctrl)
	s.mc = mocks.NewMockMaintenanceController(s.ctrl)
	s.assigner = mocks.NewMockAssigner(s.ctrl)
	s.preemptor = mocks.NewMockPreemptor(s.ctrl)
	s.sink = &fakeSink{}
	s.sched = schedcore.NewManualScheduler()
	s.clock = schedcore.NewManualClock(time.Unix(0, 0))

	scope := tally.NewTestScope("", nil)
	s.offers = offerqueue.New(s.driver, s.mc, s.sched, s.clock, offerqueue.NewMetrics(scope))
	s.s = New(s.store, s.offers, s.assigner, s.preemptor, s.sink, s.clock, time.Minute, schedcore.NoopStats{}, NewMetrics(scope))
}

func (s *SchedulerTestSuite) addOffer(id schedcore.OfferID, host schedcore.HostID, slave schedcore.SlaveID) {
	s.mc.EXPECT().GetMode(gomock.Any(), host).Return(schedcore.MaintenanceNone, nil)
	s.offers.AddOffer(context.Background(), schedcore.HostOffer{OfferID: id, HostID: host, SlaveID: slave}, time.Minute)
}

// NoTasks/TaskMissing: scheduling a task id that isn't PENDING in storage is
// reported as success with no collaborator calls beyond the read.
func (s *SchedulerTestSuite) TestTaskMissing() {
	status, err := s.s.Schedule(context.Background(), "ghost")
	s.NoError(err)
	s.Equal(schedcore.ScheduleSuccess, status)
}

// NoOffers: a PENDING task with nothing held in OfferQueue falls through to
// the preemptor and, finding no slot, is deferred.
func (s *SchedulerTestSuite) TestNoOffers() {
	s.store.Put(schedcore.Task{ID: "t1", GroupKey: groupA, JobKey: jobKey, Status: schedcore.TaskPending})
	s.preemptor.EXPECT().
		FindPreemptionSlotFor(gomock.Any(), schedcore.TaskID("t1"), gomock.Any()).
		Return(schedcore.SlaveID(""), false, nil)

	status, err := s.s.Schedule(context.Background(), "t1")
	s.NoError(err)
	s.Equal(schedcore.ScheduleTryLater, status)
}

// TaskAssigned: a matching offer drives the PENDING->ASSIGNED storage
// transition, a launch, and a TaskChangedState publish, all before
// reporting success.
func (s *SchedulerTestSuite) TestTaskAssigned() {
	s.store.Put(schedcore.Task{ID: "t1", GroupKey: groupA, JobKey: jobKey, Status: schedcore.TaskPending})
	s.addOffer(offer1, host1, slave1)

	s.assigner.EXPECT().
		MaybeAssign(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(schedcore.TaskInfo{TaskID: "t1", OfferID: offer1}, true, nil)
	s.driver.EXPECT().LaunchTask(gomock.Any(), offer1, gomock.Any()).Return(nil)

	status, err := s.s.Schedule(context.Background(), "t1")
	s.NoError(err)
	s.Equal(schedcore.ScheduleSuccess, status)

	task, ok, err := s.store.GetTask(context.Background(), "t1")
	s.NoError(err)
	s.True(ok)
	s.Equal(schedcore.TaskAssigned, task.Status)
	s.Equal(slave1, task.AssignedSlaveID)

	s.Require().Len(s.sink.changes, 1)
	s.Equal(schedcore.TaskAssigned, s.sink.changes[0].Task.Status)
	s.Equal(schedcore.TaskPending, s.sink.changes[0].From)
}

// DriverNotReady: the assigner matches and the storage transition commits,
// but the driver rejects the launch. The task is moved to LOST and the
// attempt is still reported as success since there's nothing left to retry.
func (s *SchedulerTestSuite) TestDriverNotReady() {
	s.store.Put(schedcore.Task{ID: "t1", GroupKey: groupA, JobKey: jobKey, Status: schedcore.TaskPending})
	s.addOffer(offer1, host1, slave1)

	s.assigner.EXPECT().
		MaybeAssign(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(schedcore.TaskInfo{TaskID: "t1", OfferID: offer1}, true, nil)
	s.driver.EXPECT().LaunchTask(gomock.Any(), offer1, gomock.Any()).Return(schedcore.ErrDriverNotReady)

	status, err := s.s.Schedule(context.Background(), "t1")
	s.NoError(err)
	s.Equal(schedcore.ScheduleSuccess, status)

	task, ok, err := s.store.GetTask(context.Background(), "t1")
	s.NoError(err)
	s.True(ok)
	s.Equal(schedcore.TaskLost, task.Status)

	s.Require().Len(s.sink.changes, 1)
	s.Equal(schedcore.TaskLost, s.sink.changes[0].Task.Status)
}

// A preemptor hit reserves the slot in OfferQueue and bumps the reservation
// gauge, rather than launching anything on this attempt.
func (s *SchedulerTestSuite) TestPreemptionReservesSlot() {
	s.store.Put(schedcore.Task{ID: "t1", GroupKey: groupA, JobKey: jobKey, Status: schedcore.TaskPending})
	s.preemptor.EXPECT().
		FindPreemptionSlotFor(gomock.Any(), schedcore.TaskID("t1"), gomock.Any()).
		Return(slave1, true, nil)

	status, err := s.s.Schedule(context.Background(), "t1")
	s.NoError(err)
	s.Equal(schedcore.ScheduleTryLater, status)
	s.Equal(1, s.offers.ReservationCount())
}

// OnTasksDeleted clears any reservation held for a deleted task.
func (s *SchedulerTestSuite) TestOnTasksDeletedClearsReservation() {
	s.offers.Reserve("t1", slave1, s.clock.Now().Add(time.Minute))
	s.Equal(1, s.offers.ReservationCount())

	s.s.OnTasksDeleted(context.Background(), schedcore.TasksDeleted{TaskIDs: []schedcore.TaskID{"t1"}})
	s.Equal(0, s.offers.ReservationCount())
}
