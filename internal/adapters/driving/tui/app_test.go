package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/pipelines"
)

func monitorPorts() (*Ports, *mockPipelineService, *mockStatusService) {
	pipeline := &mockPipelineService{
		meetingStats:     &driving.BatchStats{Succeeded: 10, Failed: 2},
		legislationStats: &driving.BatchStats{Succeeded: 38},
	}
	status := &mockStatusService{status: &driving.Status{
		Meetings:       12,
		ActiveMeetings: 10,
		Legislations:   40,
		Documents:      55,
		Extractions:    30,
		Summaries:      22,
	}}
	return &Ports{Pipeline: pipeline, Status: status}, pipeline, status
}

func TestNewApp(t *testing.T) {
	ports, _, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)
	assert.NotNil(t, app)
	assert.Equal(t, phaseMeetings, app.phase)
	assert.Equal(t, pipelines.Concise, app.configName)
}

func TestNewApp_CustomConfigName(t *testing.T) {
	ports, _, _ := monitorPorts()
	ports.ConfigName = "detailed"
	app, err := NewApp(ports)
	require.NoError(t, err)
	assert.Equal(t, "detailed", app.configName)
}

func TestNewApp_MissingPipeline(t *testing.T) {
	_, err := NewApp(&Ports{Status: &mockStatusService{}})
	assert.ErrorIs(t, err, ErrMissingPipelineService)
}

func TestNewApp_MissingStatus(t *testing.T) {
	_, err := NewApp(&Ports{Pipeline: &mockPipelineService{}})
	assert.ErrorIs(t, err, ErrMissingStatusService)
}

func TestAppInit(t *testing.T) {
	ports, _, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)
	assert.NotNil(t, app.Init())
}

func TestRunBatch_Meetings(t *testing.T) {
	ports, pipeline, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	msg := app.runBatch(phaseMeetings)()
	done, ok := msg.(batchDone)
	require.True(t, ok)
	assert.Equal(t, phaseMeetings, done.phase)
	assert.Equal(t, pipeline.meetingStats, done.stats)
	assert.NoError(t, done.err)
	assert.Equal(t, pipelines.Concise, pipeline.gotConfig)
}

func TestRunBatch_Legislation(t *testing.T) {
	ports, pipeline, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	msg := app.runBatch(phaseLegislation)()
	done, ok := msg.(batchDone)
	require.True(t, ok)
	assert.Equal(t, phaseLegislation, done.phase)
	assert.Equal(t, pipeline.legislationStats, done.stats)
}

func TestRunBatch_Error(t *testing.T) {
	ports, pipeline, _ := monitorPorts()
	pipeline.err = assert.AnError
	app, err := NewApp(ports)
	require.NoError(t, err)

	msg := app.runBatch(phaseMeetings)()
	done, ok := msg.(batchDone)
	require.True(t, ok)
	assert.ErrorIs(t, done.err, assert.AnError)
}

func TestFetchStatus(t *testing.T) {
	ports, _, status := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	msg := app.fetchStatus()()
	loaded, ok := msg.(statusLoaded)
	require.True(t, ok)
	assert.Equal(t, status.status, loaded.status)
}

func TestFetchStatus_ErrorKeepsPreviousSnapshot(t *testing.T) {
	ports, _, status := monitorPorts()
	status.err = assert.AnError
	app, err := NewApp(ports)
	require.NoError(t, err)

	msg := app.fetchStatus()()
	loaded, ok := msg.(statusLoaded)
	require.True(t, ok)
	assert.Nil(t, loaded.status)
}

func TestUpdate_BatchFlow(t *testing.T) {
	ports, pipeline, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	_, cmd := app.Update(batchDone{phase: phaseMeetings, stats: pipeline.meetingStats})
	assert.Equal(t, phaseLegislation, app.phase)
	assert.Equal(t, pipeline.meetingStats, app.meetings)
	assert.NotNil(t, cmd)

	_, cmd = app.Update(batchDone{phase: phaseLegislation, stats: pipeline.legislationStats})
	assert.Equal(t, phaseDone, app.phase)
	assert.Equal(t, pipeline.legislationStats, app.legislation)
	assert.NotNil(t, cmd)
}

func TestUpdate_BatchError(t *testing.T) {
	ports, _, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	_, cmd := app.Update(batchDone{phase: phaseMeetings, err: assert.AnError})
	assert.Equal(t, phaseDone, app.phase)
	assert.ErrorIs(t, app.Err(), assert.AnError)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_StatusLoaded(t *testing.T) {
	ports, _, status := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	_, _ = app.Update(statusLoaded{status: status.status})
	assert.Equal(t, status.status, app.status)
}

func TestUpdate_Quit(t *testing.T) {
	ports, _, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, app.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_PollWhileRunning(t *testing.T) {
	ports, _, _ := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	_, cmd := app.Update(pollTick{})
	assert.NotNil(t, cmd)

	app.phase = phaseDone
	_, cmd = app.Update(pollTick{})
	assert.Nil(t, cmd)
}

func TestView(t *testing.T) {
	ports, pipeline, status := monitorPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)

	t.Run("running without snapshot", func(t *testing.T) {
		view := app.View()
		assert.Contains(t, view, "engage monitor")
		assert.Contains(t, view, "Summarizing meetings...")
		assert.Contains(t, view, "q quit")
	})

	t.Run("running with snapshot", func(t *testing.T) {
		app.status = status.status
		view := app.View()
		assert.Contains(t, view, "Meetings 12 (10 active)")
		assert.Contains(t, view, "Summaries 22")
	})

	t.Run("second batch", func(t *testing.T) {
		app.phase = phaseLegislation
		app.meetings = pipeline.meetingStats
		view := app.View()
		assert.Contains(t, view, "Meetings: 10 summarized, 2 failed")
		assert.Contains(t, view, "Summarizing legislation...")
	})

	t.Run("done", func(t *testing.T) {
		app.phase = phaseDone
		app.legislation = pipeline.legislationStats
		view := app.View()
		assert.Contains(t, view, "Legislation: 38 summarized, 0 failed")
		assert.Contains(t, view, "Done in")
		assert.NotContains(t, view, "q quit")
	})

	t.Run("error", func(t *testing.T) {
		app.err = assert.AnError
		view := app.View()
		assert.Contains(t, view, "Error:")
	})
}
