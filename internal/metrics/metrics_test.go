package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObserversAreNoopsBeforeInit(t *testing.T) {
	// Must not panic when Init has not run.
	ObservePage(true)
	ObserveItem(false)
	AddRecords(3)
	ObserveFetch(200, time.Second)
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	require.NotPanics(t, Init)
	require.NotPanics(t, func() {
		ObservePage(true)
		ObservePage(false)
		ObserveItem(true)
		AddRecords(2)
		ObserveFetch(404, 250*time.Millisecond)
	})
}
