package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/pipeline"
)

func TestDragMachine_CicloCompleto(t *testing.T) {
	var m pipeline.DragMachine
	assert.Equal(t, pipeline.DragIdle, m.State())

	assert.NoError(t, m.Start("1"))
	assert.Equal(t, pipeline.DragDragging, m.State())
	assert.Equal(t, "1", m.ActiveID())

	assert.NoError(t, m.Drop("1"))
	assert.Equal(t, pipeline.DragResolving, m.State())

	assert.ErrorIs(t, m.Start("2"), pipeline.ErrDragBusy, "no se acepta otro gesto mientras resuelve")
	assert.ErrorIs(t, m.Drop("2"), pipeline.ErrDragBusy)

	m.Finish()
	assert.Equal(t, pipeline.DragIdle, m.State())
	assert.Empty(t, m.ActiveID())
}

func TestDragMachine_DropSinStartYCancel(t *testing.T) {
	var m pipeline.DragMachine
	assert.NoError(t, m.Drop("7"))
	assert.Equal(t, "7", m.ActiveID())
	m.Cancel()
	assert.Equal(t, pipeline.DragResolving, m.State(), "Cancel no interrumpe una resolución")
	m.Finish()

	assert.NoError(t, m.Start("8"))
	m.Cancel()
	assert.Equal(t, pipeline.DragIdle, m.State())
	assert.Equal(t, "idle", m.State().String())
}
