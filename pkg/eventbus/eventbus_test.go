package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadCreated struct {
	name string
}

type leadUpdated struct {
	name string
}

func testLogger(buf *bytes.Buffer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.WarnLevel)
	return log
}

func TestPublisher_NoMatchingSubscribers(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewEventPublisher(testLogger(&buf))
	publisher.Subscribe(func(e *leadCreated) {
		t.Error("should not be called")
	})

	publisher.Publish(&leadUpdated{name: "test"})

	require.NotEmpty(t, buf.String())
	assert.True(t, strings.Contains(buf.String(), "no matching subscribers"))
}

func TestPublisher_DispatchesByType(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewEventPublisher(testLogger(&buf))

	var got string
	publisher.Subscribe(func(e *leadCreated) {
		got = e.name
	})

	publisher.Publish(&leadCreated{name: "Meera"})
	assert.Equal(t, "Meera", got)
}

func TestPublisher_RecoversFromPanic(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewEventPublisher(testLogger(&buf))
	publisher.Subscribe(func(e *leadCreated) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		publisher.Publish(&leadCreated{name: "x"})
	})
	assert.True(t, strings.Contains(buf.String(), "panicked"))
}

func TestPublisher_Unsubscribe(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewEventPublisher(testLogger(&buf))

	calls := 0
	handler := func(e *leadCreated) { calls++ }
	publisher.Subscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	assert.Equal(t, 0, publisher.SubscribersCount())

	publisher.Publish(&leadCreated{name: "x"})
	assert.Equal(t, 0, calls)
}

func TestPublisher_Clear(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewEventPublisher(testLogger(&buf))
	publisher.Subscribe(func(e *leadCreated) {})
	publisher.Subscribe(func(e *leadUpdated) {})
	require.Equal(t, 2, publisher.SubscribersCount())

	publisher.Clear()
	assert.Equal(t, 0, publisher.SubscribersCount())
}
