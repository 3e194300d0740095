package basiclogger

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingObserver records lifecycle calls and events
type trackingObserver struct {
	mu        sync.Mutex
	name      string
	order     *[]string
	loadErr   error
	unloadErr error
	loads     int
	unloads   int
	events    []Event
}

func (o *trackingObserver) OnLoad() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads++
	return o.loadErr
}

func (o *trackingObserver) OnUnload() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unloads++
	return o.unloadErr
}

func (o *trackingObserver) OnEvent(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
	if o.order != nil {
		*o.order = append(*o.order, o.name+":"+ev.Message)
	}
}

func (o *trackingObserver) messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, ev := range o.events {
		if ev.Level != LevelSystem {
			out = append(out, ev.Message)
		}
	}
	return out
}

func TestObserversReceiveEventsInOrder(t *testing.T) {
	var order []string
	first := &trackingObserver{name: "first", order: &order}
	second := &trackingObserver{name: "second", order: &order}

	logger, err := NewBuilder().
		BaseDir(t.TempDir()).
		Observer(first).
		Observer(second).
		Settings(DefaultSettings()).
		Build()
	require.NoError(t, err)

	logger.LogEvent("hello", LevelInfo)
	logger.LogEvent("world", LevelError)

	assert.Equal(t, []string{"first:hello", "second:hello", "first:world", "second:world"}, order)
	assert.Equal(t, 1, first.loads)

	require.NoError(t, logger.Unload())
	assert.Equal(t, 1, first.unloads)
	assert.Equal(t, 1, second.unloads)

	// Unload banner is the last event observers see
	last := first.events[len(first.events)-1]
	assert.Equal(t, LevelSystem, last.Level)
	assert.True(t, strings.HasPrefix(last.Message, "Logger stopped"))

	logger.LogEvent("after unload", LevelInfo)
	assert.Equal(t, []string{"hello", "world"}, first.messages())
}

func TestObserverInactiveBeforeLoad(t *testing.T) {
	obs := &trackingObserver{}
	logger := New()
	require.NoError(t, logger.Register(obs))

	logger.LogEvent("too early", LevelInfo)
	assert.Empty(t, obs.messages())
}

func TestObserverLoadFailureDisables(t *testing.T) {
	broken := &trackingObserver{loadErr: errors.New("missing dependency")}
	healthy := &trackingObserver{}

	logger, err := NewBuilder().
		BaseDir(t.TempDir()).
		Observer(broken).
		Observer(healthy).
		Settings(DefaultSettings()).
		Build()
	require.NoError(t, err, "observer failures do not fail Load")

	logger.LogEvent("event", LevelInfo)
	assert.Empty(t, broken.messages())
	assert.Equal(t, []string{"event"}, healthy.messages())

	require.NoError(t, logger.Unload())
	assert.Equal(t, 0, broken.unloads, "disabled observers are not unloaded")

	content := strings.Join(readLines(t, logger.LogFilePath(time.Now())), "\n")
	assert.Contains(t, content, "failed to load and is disabled: missing dependency")
}

func TestObserverUnloadError(t *testing.T) {
	obs := &trackingObserver{unloadErr: errors.New("close failed")}
	logger, err := NewBuilder().BaseDir(t.TempDir()).Observer(obs).Settings(DefaultSettings()).Build()
	require.NoError(t, err)

	err = logger.Unload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
}

func TestObserverPanicPropagates(t *testing.T) {
	logger, err := NewBuilder().
		BaseDir(t.TempDir()).
		Observer(ObserverFunc(func(ev Event) {
			if ev.Message == "explode" {
				panic("observer fault")
			}
		})).
		Settings(DefaultSettings()).
		Build()
	require.NoError(t, err)
	defer logger.Unload()

	assert.PanicsWithValue(t, "observer fault", func() {
		logger.LogEvent("explode", LevelInfo)
	})
}

func TestRegister(t *testing.T) {
	logger := New()
	assert.Error(t, logger.Register(nil))

	var got []string
	require.NoError(t, logger.Register(ObserverFunc(func(ev Event) {
		got = append(got, ev.Message)
	})))

	logger.baseDir = t.TempDir()
	require.NoError(t, logger.Apply(DefaultSettings()))
	defer logger.Unload()

	assert.Error(t, logger.Register(ObserverFunc(func(Event) {})), "registration closes at Load")

	logger.LogEvent("seen", LevelInfo)
	assert.Contains(t, got, "seen")
}

func TestConsoleObserver(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleObserver(&buf, LevelError)

	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	console.OnEvent(Event{Time: ts, Level: LevelInfo, Message: "skipped"})
	console.OnEvent(Event{Time: ts, Level: LevelError, Message: "shown\nonce"})

	assert.NoError(t, console.OnLoad())
	assert.NoError(t, console.OnUnload())
	assert.Equal(t, "06/05/2024 07:08:09 - LogLevel: Error, shown<0a>once\n", buf.String())
}
