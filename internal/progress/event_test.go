package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validEvent(stage Stage) Event {
	return Event{
		RunID: uuid.New(),
		TS:    time.Now().UTC(),
		Stage: stage,
		URL:   "https://shop.example/p/A.html",
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	for _, stage := range []Stage{StageRunStart, StagePageDone, StageItemDone, StageRunDone, StageRunError} {
		assert.NoError(t, validEvent(stage).Validate(), "stage %s", stage)
	}

	evt := validEvent(StagePageDone)
	evt.RunID = uuid.Nil
	assert.Error(t, evt.Validate())

	evt = validEvent(StagePageDone)
	evt.TS = time.Time{}
	assert.Error(t, evt.Validate())

	evt = validEvent(StagePageDone)
	evt.URL = ""
	assert.Error(t, evt.Validate())

	evt = validEvent(StageItemDone)
	evt.URL = ""
	assert.Error(t, evt.Validate())

	evt = validEvent(StageRunDone)
	evt.URL = ""
	assert.NoError(t, evt.Validate(), "run stages need no url")

	evt = validEvent(StagePageDone)
	evt.Stage = "SOMETHING_ELSE"
	assert.Error(t, evt.Validate())

	evt = validEvent(StagePageDone)
	evt.Dur = -time.Second
	assert.Error(t, evt.Validate())
}
