package statistics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/src/statistics"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestTrackerFocusAndDuration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tracker := statistics.NewTracker(clock)

	tracker.Focus("doc-a")
	clock.Advance(30 * time.Second)
	tracker.Focus("doc-b")
	clock.Advance(90 * time.Second)
	tracker.Focus("")

	assert.Equal(t, "30秒", statistics.FormatDuration(tracker.Duration("doc-a")))
	assert.Equal(t, "1分钟", statistics.FormatDuration(tracker.Duration("doc-b")))
}

func TestTrackerCountsOpenInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tracker := statistics.NewTracker(clock)
	tracker.Focus("doc")
	clock.Advance(5 * time.Second)
	assert.Equal(t, 5*time.Second, tracker.Duration("doc"))

	tracker.Stop()
	clock.Advance(time.Hour)
	assert.Equal(t, 5*time.Second, tracker.Duration("doc"))
}

func TestTrackerRefocusAccumulates(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tracker := statistics.NewTracker(clock)
	tracker.Focus("a")
	clock.Advance(10 * time.Second)
	tracker.Focus("b")
	clock.Advance(10 * time.Second)
	tracker.Focus("a")
	clock.Advance(10 * time.Second)
	assert.Equal(t, 20*time.Second, tracker.Duration("a"))
}

func TestTrackerForget(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tracker := statistics.NewTracker(clock)
	tracker.Focus("a")
	clock.Advance(time.Minute)
	tracker.Forget("a")
	assert.Zero(t, tracker.Duration("a"))
	assert.Empty(t, tracker.Report())
}

func TestTrackerReportOrder(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tracker := statistics.NewTracker(clock)
	tracker.Focus("short")
	clock.Advance(time.Second)
	tracker.Focus("long")
	clock.Advance(time.Minute)

	report := tracker.Report()
	require.Len(t, report, 2)
	assert.Equal(t, "long", report[0].DocID)
	assert.Equal(t, time.Minute, report[0].Duration)
	assert.Equal(t, "short", report[1].DocID)
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                            "0秒",
		45 * time.Second:             "45秒",
		5 * time.Minute:              "5分钟",
		2 * time.Hour:                "2小时",
		2*time.Hour + 15*time.Minute: "2小时15分钟",
		24 * time.Hour:               "1天",
		25 * time.Hour:               "1天1小时",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, statistics.FormatDuration(input), "input %v", input)
	}
}
