// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package environment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/spacenavgo/internal/scene"
	"github.com/specialistvlad/spacenavgo/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingModule struct {
	name     string
	log      *[]string
	stepErr  error
	closeErr error
}

func (m *recordingModule) Name() string { return m.name }

func (m *recordingModule) SendCommand(ctx context.Context, line string) (string, error) {
	return line, nil
}

func (m *recordingModule) SimulationStep(ctx context.Context, elapsed time.Duration) error {
	*m.log = append(*m.log, "step:"+m.name+":"+elapsed.String())
	return m.stepErr
}

func (m *recordingModule) Close() error {
	*m.log = append(*m.log, "close:"+m.name)
	return m.closeErr
}

type countingPublisher struct{ n int }

func (p *countingPublisher) Publish(string, any) { p.n++ }

func TestEnvironment_StepsModulesInAttachOrder(t *testing.T) {
	t.Parallel()

	var log []string
	env := New()
	require.NoError(t, env.AddModule(&recordingModule{name: "a", log: &log}))
	require.NoError(t, env.AddModule(&recordingModule{name: "b", log: &log}))

	ctx := context.Background()
	require.NoError(t, env.StepSimulation(ctx, 10*time.Millisecond))
	require.NoError(t, env.StepSimulation(ctx, 5*time.Millisecond))

	assert.Equal(t, []string{"step:a:10ms", "step:b:10ms", "step:a:5ms", "step:b:5ms"}, log)
	assert.Equal(t, 15*time.Millisecond, env.SimTime())
	assert.Len(t, env.Modules(), 2)
}

func TestEnvironment_StepErrorNamesModule(t *testing.T) {
	t.Parallel()

	var log []string
	boom := errors.New("boom")
	env := New()
	require.NoError(t, env.AddModule(&recordingModule{name: "broken", log: &log, stepErr: boom}))
	require.NoError(t, env.AddModule(&recordingModule{name: "after", log: &log}))

	err := env.StepSimulation(context.Background(), time.Millisecond)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "module broken")
	assert.Equal(t, []string{"step:broken:1ms"}, log, "later modules must not be stepped")
}

func TestEnvironment_DestroyClosesModulesOnceInReverseOrder(t *testing.T) {
	t.Parallel()

	var log []string
	closeErr := errors.New("close failed")
	env := New()
	require.NoError(t, env.AddModule(&recordingModule{name: "a", log: &log, closeErr: closeErr}))
	require.NoError(t, env.AddModule(&recordingModule{name: "b", log: &log}))

	ctx := context.Background()
	err := env.Destroy(ctx)
	require.ErrorIs(t, err, closeErr)
	assert.Equal(t, []string{"close:b", "close:a"}, log)

	err = env.Destroy(ctx)
	require.ErrorIs(t, err, closeErr, "second destroy reports the first result")
	assert.Equal(t, []string{"close:b", "close:a"}, log, "modules must be closed exactly once")

	assert.True(t, env.Destroyed())
	assert.ErrorIs(t, env.AddModule(&recordingModule{name: "c", log: &log}), ErrDestroyed)
	assert.ErrorIs(t, env.StepSimulation(ctx, time.Millisecond), ErrDestroyed)
	assert.ErrorIs(t, env.Load(ctx, "testdata/none.xml", scene.Options{}), ErrDestroyed)
}

func TestEnvironment_LoadScene(t *testing.T) {
	t.Parallel()

	env := New()
	err := env.Load(context.Background(), "../scene/testdata/myscene.env.xml", scene.Options{})
	require.NoError(t, err)
	require.NotNil(t, env.Scene())
	assert.Len(t, env.Scene().KinBodies, 2)
}

func TestEnvironment_Publisher(t *testing.T) {
	t.Parallel()

	assert.IsType(t, telemetry.Nop{}, New().Publisher())
	assert.IsType(t, telemetry.Nop{}, New(WithPublisher(nil)).Publisher())

	p := &countingPublisher{}
	env := New(WithPublisher(p))
	env.Publisher().Publish("x", nil)
	assert.Equal(t, 1, p.n)
	assert.NotEqual(t, New().ID(), env.ID())
}
