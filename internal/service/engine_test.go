package service

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalnudge/internal/repository"
	"github.com/templui/goalnudge/internal/testutil"
)

type engine struct {
	db         *sqlx.DB
	now        time.Time
	gen        *fakeGenerator
	delivery   *fakeDeliverer
	objectives repository.ObjectiveRepository
	steps      repository.StepRepository
	actions    repository.PendingActionRepository
	users      *UserService
	objective  *ObjectiveService
	nudge      *NudgeService
	reply      *ReplyService
}

// newEngine wires the nudge and reply services over a fresh database with
// the clock frozen at now.
func newEngine(t *testing.T, now time.Time, responses ...string) *engine {
	t.Helper()

	database := testutil.NewDB(t)
	e := &engine{
		db:         database,
		now:        now,
		gen:        &fakeGenerator{responses: responses},
		delivery:   &fakeDeliverer{},
		objectives: repository.NewObjectiveRepository(database),
		steps:      repository.NewStepRepository(database),
		actions:    repository.NewPendingActionRepository(database),
	}

	opts := EngineOptions{
		PendingActionTTL: 24 * time.Hour,
		Now:              func() time.Time { return e.now },
	}

	e.users = NewUserService(repository.NewUserRepository(database), -300)
	synthesizer := NewSynthesizer(e.gen, time.Second)
	e.nudge = NewNudgeService(e.objectives, e.steps, e.actions, e.users, NewActionSelector(synthesizer, nil), e.delivery, opts)
	e.objective = NewObjectiveService(e.objectives, e.steps, repository.NewUserRepository(database), opts)
	e.reply = NewReplyService(e.objectives, e.steps, e.actions, e.users, synthesizer, opts)

	return e
}
